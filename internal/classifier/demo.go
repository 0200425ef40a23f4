package classifier

import (
	"context"
	"math/rand"
	"sync"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/emotion"
)

// Demo emits pseudo-random labels so the pipeline can run without a
// model service. Seedable for reproducible tests.
type Demo struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDemo builds a demo backend from the given seed.
func NewDemo(seed int64) *Demo {
	return &Demo{rng: rand.New(rand.NewSource(seed))}
}

// Classify ignores the frame and returns a random label.
func (d *Demo) Classify(_ context.Context, _ camera.Frame) (emotion.Label, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	labels := emotion.All()
	return labels[d.rng.Intn(len(labels))], nil
}
