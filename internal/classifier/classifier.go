// Package classifier provides emotion-inference backends behind one
// narrow contract: a JPEG frame in, a label from the closed emotion set
// out. Failures surface as errors; callers degrade by skipping the tick.
package classifier

import (
	"errors"
	"fmt"

	"github.com/moodmatehq/moodmate/internal/emotion"
)

// Backend names selectable via config.
const (
	BackendHTTP   = "http"
	BackendSocket = "socket"
	BackendDemo   = "demo"
)

// ErrNoFace reports that the model found no classifiable face in the
// frame. Distinct from transport failure so callers can log it quietly.
var ErrNoFace = errors.New("no face detected")

// score is one label/confidence pair in a detection response.
type score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// detection is the JSON detection payload shared by the HTTP and socket
// backends (the DeepFace sidecar emits the same shape on both).
type detection struct {
	Emotions        []score `json:"emotions"`
	DominantEmotion string  `json:"dominant_emotion"`
	Error           string  `json:"error,omitempty"`
}

// label resolves a detection to a canonical emotion label, preferring
// the dominant_emotion field and falling back to the highest score.
func (d detection) label() (emotion.Label, error) {
	if d.Error != "" {
		return "", fmt.Errorf("classifier: %s", d.Error)
	}

	raw := d.DominantEmotion
	if raw == "" {
		best := -1.0
		for _, s := range d.Emotions {
			if s.Score > best {
				best = s.Score
				raw = s.Label
			}
		}
	}
	if raw == "" {
		return "", ErrNoFace
	}

	label, ok := emotion.Parse(raw)
	if !ok {
		return "", fmt.Errorf("classifier returned unknown label %q", raw)
	}
	return label, nil
}
