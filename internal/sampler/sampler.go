// Package sampler runs the fixed-cadence capture -> classify -> record
// loop feeding the stability tracker.
package sampler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/classifier"
	"github.com/moodmatehq/moodmate/internal/emotion"
	"github.com/moodmatehq/moodmate/internal/fsm"
)

const DefaultInterval = time.Second

// FrameSource supplies the latest camera frame on demand.
type FrameSource interface {
	Frame(context.Context) (camera.Frame, error)
}

// Classifier turns one frame into a raw emotion label.
type Classifier interface {
	Classify(context.Context, camera.Frame) (emotion.Label, error)
}

// Recorder is the tracker-facing subset the loop needs.
type Recorder interface {
	Record(emotion.Label) bool
	State() fsm.State
}

// ErrorReporter surfaces sustained capture failures to the user.
type ErrorReporter interface {
	ShowError(context.Context, string)
}

// frameFailureStreak is how many consecutive capture failures trigger
// one user-facing error before the counter re-arms on the next good frame.
const frameFailureStreak = 5

// Stats counts loop activity for session results and status output.
type Stats struct {
	Ticks    uint64
	Recorded uint64
	Skipped  uint64
}

// Loop drives sampling on its own goroutine. Classifier calls happen
// entirely inside Run's goroutine, never under the tracker lock. Every
// per-tick failure is contained: the tick is skipped, the loop lives on.
type Loop struct {
	frames   FrameSource
	classify Classifier
	recorder Recorder
	interval time.Duration
	logger   *slog.Logger

	reporter   ErrorReporter
	dumpFrames bool

	// frameFailures counts consecutive capture errors; only the Run
	// goroutine touches it
	frameFailures int

	ticks    atomic.Uint64
	recorded atomic.Uint64
	skipped  atomic.Uint64
}

// New constructs a sampling loop. A non-positive interval defaults to 1s.
func New(frames FrameSource, classify Classifier, recorder Recorder, interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		frames:   frames,
		classify: classify,
		recorder: recorder,
		interval: interval,
		logger:   logger,
	}
}

// ReportErrors routes sustained capture failures to reporter.
// Set before Run.
func (l *Loop) ReportErrors(reporter ErrorReporter) {
	l.reporter = reporter
}

// EnableFrameDump writes every captured JPEG under the state directory
// for offline inspection. Set before Run.
func (l *Loop) EnableFrameDump() {
	l.dumpFrames = true
}

// Run samples once per interval until ctx is cancelled. Cancellation is
// observed within one period; an in-flight classification finishes and
// its Record call simply no-ops on a stopped tracker.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick performs at most one Record. While the tracker is paused the
// frame is never grabbed, so no inference work is wasted.
func (l *Loop) tick(ctx context.Context) {
	l.ticks.Add(1)

	if l.recorder.State() != fsm.StateRunning {
		l.skipped.Add(1)
		return
	}

	frame, err := l.frames.Frame(ctx)
	if err != nil {
		l.skipped.Add(1)
		if errors.Is(err, context.Canceled) {
			return
		}
		if errors.Is(err, camera.ErrNoFrame) {
			l.log(slog.LevelDebug, "no frame this tick", err)
		} else {
			l.log(slog.LevelWarn, "frame capture failed", err)
		}
		l.frameFailures++
		if l.reporter != nil && l.frameFailures == frameFailureStreak {
			l.reporter.ShowError(ctx, "Camera capture failing")
		}
		return
	}
	l.frameFailures = 0

	if l.dumpFrames {
		l.writeFrameDump(frame)
	}

	label, err := l.classify.Classify(ctx, frame)
	if err != nil {
		// Policy: a failed classification skips the tick. No fallback
		// label is recorded, so the history only ever holds real model
		// output.
		l.skipped.Add(1)
		if errors.Is(err, classifier.ErrNoFace) || errors.Is(err, context.Canceled) {
			l.log(slog.LevelDebug, "no classification this tick", err)
		} else {
			l.log(slog.LevelWarn, "classification failed", err)
		}
		return
	}

	if l.recorder.Record(label) {
		l.recorded.Add(1)
	} else {
		l.skipped.Add(1)
	}
}

// Stats returns a snapshot of loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:    l.ticks.Load(),
		Recorded: l.recorded.Load(),
		Skipped:  l.skipped.Load(),
	}
}

func (l *Loop) log(level slog.Level, message string, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Log(context.Background(), level, message, "error", err.Error())
}
