// Package tracker smooths noisy per-frame emotion labels into a stable
// mood verdict using rolling-window mode voting.
package tracker

import (
	"sync"

	"github.com/moodmatehq/moodmate/internal/emotion"
	"github.com/moodmatehq/moodmate/internal/fsm"
)

const (
	DefaultWindow          = 7
	DefaultStableThreshold = 3
)

// Config sizes the rolling window and the promotion threshold.
type Config struct {
	Window          int
	StableThreshold int
}

// Snapshot is a consistent read of tracker state for status and logging.
type Snapshot struct {
	State      fsm.State
	Verdict    emotion.Label
	HasVerdict bool
	HistoryLen int
	Samples    uint64
}

// Tracker keeps the most recent labels and promotes the dominant one to a
// stable verdict once it appears at least StableThreshold times. All state
// is guarded by one mutex; every public method is safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	window     int
	threshold  int
	history    []emotion.Label
	state      fsm.State
	verdict    emotion.Label
	hasVerdict bool
	samples    uint64
}

// New constructs a running tracker, applying defaults for non-positive
// config values.
func New(cfg Config) *Tracker {
	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}
	threshold := cfg.StableThreshold
	if threshold <= 0 {
		threshold = DefaultStableThreshold
	}
	return &Tracker{
		window:    window,
		threshold: threshold,
		history:   make([]emotion.Label, 0, window),
		state:     fsm.StateRunning,
	}
}

// Record appends one raw label, evicting the oldest at capacity, and
// recomputes the verdict. It reports whether the sample was accepted;
// paused and stopped trackers drop samples.
//
// A tie for most-frequent label skips promotion for that round, so the
// verdict only ever changes when a single label dominates the window.
// The verdict never reverts to none on count decay; only Resume clears it.
func (t *Tracker) Record(label emotion.Label) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != fsm.StateRunning {
		return false
	}

	if len(t.history) == t.window {
		copy(t.history, t.history[1:])
		t.history[len(t.history)-1] = label
	} else {
		t.history = append(t.history, label)
	}
	t.samples++

	if mode, count, unique := windowMode(t.history); unique && count >= t.threshold {
		t.verdict = mode
		t.hasVerdict = true
	}
	return true
}

// Verdict returns the current stable verdict, if any. The critical
// section is a snapshot read, cheap enough for frequent polling.
func (t *Tracker) Verdict() (emotion.Label, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verdict, t.hasVerdict
}

// State returns the current lifecycle state.
func (t *Tracker) State() fsm.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Pause stops history and verdict updates without discarding evidence.
// Idempotent; a no-op once stopped.
func (t *Tracker) Pause() {
	t.transition(fsm.EventPause)
}

// Resume restarts sampling from scratch: history and verdict are cleared
// so the next verdict is built from fresh evidence only. Idempotent; a
// no-op once stopped.
func (t *Tracker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := fsm.Transition(t.state, fsm.EventResume)
	if err != nil {
		return
	}
	t.state = next
	t.history = t.history[:0]
	t.verdict = ""
	t.hasVerdict = false
}

// Stop terminates the tracker permanently. Later Record/Pause/Resume
// calls are no-ops.
func (t *Tracker) Stop() {
	t.transition(fsm.EventStop)
}

// Snapshot returns a consistent view of state, verdict, and history size.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		State:      t.state,
		Verdict:    t.verdict,
		HasVerdict: t.hasVerdict,
		HistoryLen: len(t.history),
		Samples:    t.samples,
	}
}

// transition applies one lifecycle event, swallowing invalid transitions.
func (t *Tracker) transition(event fsm.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := fsm.Transition(t.state, event)
	if err != nil {
		return
	}
	t.state = next
}

// windowMode finds the most frequent label in the window. unique is false
// when two or more labels share the highest count.
func windowMode(history []emotion.Label) (mode emotion.Label, count int, unique bool) {
	if len(history) == 0 {
		return "", 0, false
	}

	counts := make(map[emotion.Label]int, len(history))
	for _, label := range history {
		counts[label]++
	}

	best := 0
	ties := 0
	for label, c := range counts {
		switch {
		case c > best:
			best = c
			mode = label
			ties = 1
		case c == best:
			ties++
		}
	}
	return mode, best, ties == 1
}
