package sampler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/emotion"
	"github.com/moodmatehq/moodmate/internal/fsm"
)

type fakeFrames struct {
	calls atomic.Int32
	err   error
}

func (f *fakeFrames) Frame(context.Context) (camera.Frame, error) {
	f.calls.Add(1)
	if f.err != nil {
		return camera.Frame{}, f.err
	}
	return camera.Frame{JPEG: []byte{0xff, 0xd8}}, nil
}

type fakeClassifier struct {
	calls atomic.Int32
	label emotion.Label
	err   error
}

func (f *fakeClassifier) Classify(context.Context, camera.Frame) (emotion.Label, error) {
	f.calls.Add(1)
	return f.label, f.err
}

type fakeRecorder struct {
	state    atomic.Value
	recorded []emotion.Label
}

func newFakeRecorder(state fsm.State) *fakeRecorder {
	r := &fakeRecorder{}
	r.state.Store(state)
	return r
}

func (r *fakeRecorder) Record(label emotion.Label) bool {
	if r.state.Load().(fsm.State) != fsm.StateRunning {
		return false
	}
	r.recorded = append(r.recorded, label)
	return true
}

func (r *fakeRecorder) State() fsm.State {
	return r.state.Load().(fsm.State)
}

func TestTickRecordsExactlyOneLabel(t *testing.T) {
	frames := &fakeFrames{}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StateRunning)

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.tick(context.Background())

	if len(recorder.recorded) != 1 || recorder.recorded[0] != emotion.Happy {
		t.Fatalf("expected one happy record, got %v", recorder.recorded)
	}
	stats := loop.Stats()
	if stats.Recorded != 1 || stats.Skipped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestTickSkipsClassifierWhilePaused(t *testing.T) {
	frames := &fakeFrames{}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StatePaused)

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.tick(context.Background())

	if frames.calls.Load() != 0 {
		t.Fatal("paused tick must not grab a frame")
	}
	if classify.calls.Load() != 0 {
		t.Fatal("paused tick must not invoke the classifier")
	}
	if loop.Stats().Skipped != 1 {
		t.Fatalf("expected one skipped tick, got %+v", loop.Stats())
	}
}

func TestTickSkipsOnMissingFrame(t *testing.T) {
	frames := &fakeFrames{err: camera.ErrNoFrame}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StateRunning)

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.tick(context.Background())

	if classify.calls.Load() != 0 {
		t.Fatal("missing frame must not reach the classifier")
	}
	if len(recorder.recorded) != 0 {
		t.Fatalf("expected no records, got %v", recorder.recorded)
	}
}

func TestTickSkipsOnClassifierFailure(t *testing.T) {
	frames := &fakeFrames{}
	classify := &fakeClassifier{err: errors.New("inference exploded")}
	recorder := newFakeRecorder(fsm.StateRunning)

	loop := New(frames, classify, recorder, time.Second, nil)
	for i := 0; i < 3; i++ {
		loop.tick(context.Background())
	}

	if len(recorder.recorded) != 0 {
		t.Fatalf("expected no records, got %v", recorder.recorded)
	}
	if loop.Stats().Skipped != 3 {
		t.Fatalf("expected three skipped ticks, got %+v", loop.Stats())
	}
}

func TestRunStopsWithinOnePeriod(t *testing.T) {
	frames := &fakeFrames{}
	classify := &fakeClassifier{label: emotion.Neutral}
	recorder := newFakeRecorder(fsm.StateRunning)

	loop := New(frames, classify, recorder, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("loop did not stop within one period of cancellation")
	}

	if loop.Stats().Ticks == 0 {
		t.Fatal("expected at least one tick before cancellation")
	}
}

func TestNewAppliesDefaultInterval(t *testing.T) {
	loop := New(&fakeFrames{}, &fakeClassifier{}, newFakeRecorder(fsm.StateRunning), 0, nil)
	if loop.interval != DefaultInterval {
		t.Fatalf("expected default interval, got %v", loop.interval)
	}
}

type fakeReporter struct {
	errors atomic.Int32
}

func (f *fakeReporter) ShowError(context.Context, string) {
	f.errors.Add(1)
}

func TestSustainedFrameFailuresReportOnce(t *testing.T) {
	frames := &fakeFrames{err: errors.New("device wedged")}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StateRunning)
	reporter := &fakeReporter{}

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.ReportErrors(reporter)

	for i := 0; i < frameFailureStreak*2; i++ {
		loop.tick(context.Background())
	}
	if n := reporter.errors.Load(); n != 1 {
		t.Fatalf("errors reported = %d, want 1 after a sustained streak", n)
	}
}

func TestGoodFrameRearmsFailureReporting(t *testing.T) {
	frames := &fakeFrames{err: errors.New("device wedged")}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StateRunning)
	reporter := &fakeReporter{}

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.ReportErrors(reporter)

	for i := 0; i < frameFailureStreak; i++ {
		loop.tick(context.Background())
	}
	frames.err = nil
	loop.tick(context.Background())
	frames.err = errors.New("device wedged again")
	for i := 0; i < frameFailureStreak; i++ {
		loop.tick(context.Background())
	}

	if n := reporter.errors.Load(); n != 2 {
		t.Fatalf("errors reported = %d, want 2 across two streaks", n)
	}
}

func TestFrameDumpWritesCapturedJPEG(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	frames := &fakeFrames{}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StateRunning)

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.EnableFrameDump()
	loop.tick(context.Background())

	matches, err := filepath.Glob(filepath.Join(stateDir, "moodmate", "frames", "frame-*.jpg"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("frame dumps = %d, want 1", len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if len(data) == 0 || data[0] != 0xff {
		t.Fatalf("dump content %v does not match captured frame", data)
	}
}

func TestFrameDumpDisabledWritesNothing(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	frames := &fakeFrames{}
	classify := &fakeClassifier{label: emotion.Happy}
	recorder := newFakeRecorder(fsm.StateRunning)

	loop := New(frames, classify, recorder, time.Second, nil)
	loop.tick(context.Background())

	if _, err := os.Stat(filepath.Join(stateDir, "moodmate", "frames")); !os.IsNotExist(err) {
		t.Fatalf("frames dir exists without frame dump enabled (err=%v)", err)
	}
}
