// Package reaction polls the tracker for stable verdicts and fires
// user-visible reactions on change, debounced.
package reaction

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moodmatehq/moodmate/internal/emotion"
)

const (
	DefaultPoll     = 600 * time.Millisecond
	DefaultDebounce = time.Second
)

// VerdictSource is the tracker-facing subset the gate polls.
type VerdictSource interface {
	Verdict() (emotion.Label, bool)
	Pause()
}

// Reactor performs the user-visible side effects for one mood change.
// Implementations are best-effort; the gate never inspects failures.
type Reactor interface {
	React(ctx context.Context, mood emotion.Label)
}

// ReactorFunc adapts a function to the Reactor interface.
type ReactorFunc func(ctx context.Context, mood emotion.Label)

func (f ReactorFunc) React(ctx context.Context, mood emotion.Label) { f(ctx, mood) }

// Config tunes gate cadence and post-reaction behavior.
type Config struct {
	Poll         time.Duration
	Debounce     time.Duration
	PauseOnReact bool
}

// Gate reacts at most once per mood change: the verdict must be present,
// differ from the last one shown, and arrive after the debounce interval.
// After reacting it pauses the tracker (when configured), so nothing
// further fires until an explicit resume.
type Gate struct {
	source  VerdictSource
	reactor Reactor
	cfg     Config
	logger  *slog.Logger

	mu          sync.Mutex
	lastShown   emotion.Label
	hasShown    bool
	lastTrigger time.Time

	reactions atomic.Uint64
}

// New constructs a gate, applying defaults for non-positive intervals.
func New(source VerdictSource, reactor Reactor, cfg Config, logger *slog.Logger) *Gate {
	if cfg.Poll <= 0 {
		cfg.Poll = DefaultPoll
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if reactor == nil {
		reactor = ReactorFunc(func(context.Context, emotion.Label) {})
	}
	return &Gate{source: source, reactor: reactor, cfg: cfg, logger: logger}
}

// Run polls until ctx is cancelled.
func (g *Gate) Run(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.poll(ctx)
		}
	}
}

// poll fires the reactor when all gate conditions hold.
func (g *Gate) poll(ctx context.Context) {
	verdict, ok := g.source.Verdict()
	if !ok {
		return
	}

	g.mu.Lock()
	if g.hasShown && verdict == g.lastShown {
		g.mu.Unlock()
		return
	}
	now := time.Now()
	if !g.lastTrigger.IsZero() && now.Sub(g.lastTrigger) < g.cfg.Debounce {
		g.mu.Unlock()
		return
	}
	g.lastShown = verdict
	g.hasShown = true
	g.lastTrigger = now
	g.mu.Unlock()

	g.reactions.Add(1)
	if g.logger != nil {
		g.logger.Info("mood detected", "mood", string(verdict))
	}

	g.reactor.React(ctx, verdict)

	if g.cfg.PauseOnReact {
		g.source.Pause()
	}
}

// Reset forgets the last shown mood so the same verdict can trigger
// again after a resume.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastShown = ""
	g.hasShown = false
}

// Reactions returns the number of reactions fired.
func (g *Gate) Reactions() uint64 {
	return g.reactions.Load()
}
