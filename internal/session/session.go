// Package session coordinates the mood tracking lifecycle and IPC commands.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/moodmatehq/moodmate/internal/emotion"
	"github.com/moodmatehq/moodmate/internal/fsm"
	"github.com/moodmatehq/moodmate/internal/ipc"
	"github.com/moodmatehq/moodmate/internal/sampler"
	"github.com/moodmatehq/moodmate/internal/tracker"
)

// Result is the complete lifecycle output returned by one Run invocation.
type Result struct {
	State      fsm.State
	Mood       emotion.Label
	HasMood    bool
	Samples    uint64
	Reactions  uint64
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Sampler is the session-facing subset of the sampling loop.
type Sampler interface {
	Run(context.Context)
	Stats() sampler.Stats
}

// Gate is the session-facing subset of the reaction gate.
type Gate interface {
	Run(context.Context)
	Reset()
	Reactions() uint64
}

// Indicator is the session-facing subset of indicator behavior.
type Indicator interface {
	ShowPaused(context.Context)
	ShowResumed(context.Context)
	CueStop(context.Context)
	Hide(context.Context)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowPaused(context.Context)  {}
func (noopIndicator) ShowResumed(context.Context) {}
func (noopIndicator) CueStop(context.Context)     {}
func (noopIndicator) Hide(context.Context)        {}

// noopGate preserves session flow when no gate is wired.
type noopGate struct{}

func (noopGate) Run(ctx context.Context) { <-ctx.Done() }
func (noopGate) Reset()                  {}
func (noopGate) Reactions() uint64       { return 0 }

// noopSampler preserves session flow when no sampler is wired.
type noopSampler struct{}

func (noopSampler) Run(ctx context.Context) { <-ctx.Done() }
func (noopSampler) Stats() sampler.Stats    { return sampler.Stats{} }

// Controller orchestrates the tracker, sampling loop, and reaction gate
// for one daemon lifetime, and serves IPC commands against them.
type Controller struct {
	logger    *slog.Logger
	tracker   *tracker.Tracker
	sampler   Sampler
	gate      Gate
	indicator Indicator

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	trk *tracker.Tracker,
	smp Sampler,
	gate Gate,
	indicator Indicator,
) *Controller {
	if trk == nil {
		trk = tracker.New(tracker.Config{})
	}
	if smp == nil {
		smp = noopSampler{}
	}
	if gate == nil {
		gate = noopGate{}
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}

	return &Controller{
		logger:    logger,
		tracker:   trk,
		sampler:   smp,
		gate:      gate,
		indicator: indicator,
		stopCh:    make(chan struct{}),
	}
}

// State returns the current tracker state snapshot.
func (c *Controller) State() fsm.State {
	return c.tracker.State()
}

// Run drives the sampling loop and reaction gate until the context is
// cancelled or a stop command arrives.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{StartedAt: time.Now()}

	if c.tracker.State() == fsm.StateStopped {
		result.State = fsm.StateStopped
		result.Err = fmt.Errorf("session already stopped")
		result.FinishedAt = time.Now()
		return result
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.sampler.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		c.gate.Run(runCtx)
	}()

	select {
	case <-ctx.Done():
		result.Err = ctx.Err()
	case <-c.stopCh:
	}

	cancel()
	wg.Wait()

	c.tracker.Stop()

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
	defer cleanupCancel()
	c.indicator.CueStop(cleanupCtx)
	c.indicator.Hide(cleanupCtx)

	snap := c.tracker.Snapshot()
	result.State = snap.State
	result.Mood = snap.Verdict
	result.HasMood = snap.HasVerdict
	result.Samples = c.sampler.Stats().Recorded
	result.Reactions = c.gate.Reactions()
	result.FinishedAt = time.Now()
	return result
}

// Handle serves IPC commands for the active daemon session.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return c.status()
	case ipc.CommandMood:
		return c.mood()
	case ipc.CommandPause:
		return c.pause(ctx)
	case ipc.CommandResume:
		return c.resume(ctx)
	case ipc.CommandStop:
		return c.requestStop()
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

func (c *Controller) status() ipc.Response {
	snap := c.tracker.Snapshot()
	resp := ipc.Response{OK: true, State: string(snap.State), Message: "status"}
	if snap.HasVerdict {
		resp.Mood = string(snap.Verdict)
	}
	return resp
}

func (c *Controller) mood() ipc.Response {
	snap := c.tracker.Snapshot()
	if !snap.HasVerdict {
		return ipc.Response{OK: true, State: string(snap.State), Message: "no stable mood yet"}
	}
	return ipc.Response{OK: true, State: string(snap.State), Mood: string(snap.Verdict)}
}

func (c *Controller) pause(ctx context.Context) ipc.Response {
	state := c.State()
	if state == fsm.StateStopped {
		return ipc.Response{OK: false, State: string(state), Error: "cannot pause a stopped session"}
	}

	c.tracker.Pause()
	c.indicator.ShowPaused(ctx)
	if c.logger != nil {
		c.logger.Info("mood tracking paused")
	}
	return ipc.Response{OK: true, State: string(c.State()), Message: "paused"}
}

// resume clears the stability window and re-arms the reaction gate so the
// next stable mood fires even if it matches the last one shown.
func (c *Controller) resume(ctx context.Context) ipc.Response {
	state := c.State()
	if state == fsm.StateStopped {
		return ipc.Response{OK: false, State: string(state), Error: "cannot resume a stopped session"}
	}

	c.tracker.Resume()
	c.gate.Reset()
	c.indicator.ShowResumed(ctx)
	if c.logger != nil {
		c.logger.Info("mood tracking resumed")
	}
	return ipc.Response{OK: true, State: string(c.State()), Message: "resumed"}
}

func (c *Controller) requestStop() ipc.Response {
	state := c.State()
	c.stopOnce.Do(func() { close(c.stopCh) })
	return ipc.Response{OK: true, State: string(state), Message: "stop requested"}
}
