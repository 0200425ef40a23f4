// Package app dispatches CLI commands to the daemon, IPC client, and tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/classifier"
	"github.com/moodmatehq/moodmate/internal/cli"
	"github.com/moodmatehq/moodmate/internal/config"
	"github.com/moodmatehq/moodmate/internal/doctor"
	"github.com/moodmatehq/moodmate/internal/emotion"
	"github.com/moodmatehq/moodmate/internal/indicator"
	"github.com/moodmatehq/moodmate/internal/ipc"
	"github.com/moodmatehq/moodmate/internal/jokes"
	"github.com/moodmatehq/moodmate/internal/launcher"
	"github.com/moodmatehq/moodmate/internal/logging"
	"github.com/moodmatehq/moodmate/internal/reaction"
	"github.com/moodmatehq/moodmate/internal/sampler"
	"github.com/moodmatehq/moodmate/internal/session"
	"github.com/moodmatehq/moodmate/internal/speech"
	"github.com/moodmatehq/moodmate/internal/tracker"
	"github.com/moodmatehq/moodmate/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("moodmate"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("moodmate"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	if parsed.Command == cli.CommandDevices {
		return r.commandDevices()
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandMood:
		return r.commandMood(ctx)
	case cli.CommandPause:
		return r.forwardOrFail(ctx, ipc.CommandPause)
	case cli.CommandResume:
		return r.forwardOrFail(ctx, ipc.CommandResume)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, ipc.CommandStop)
	case cli.CommandPlay:
		return r.commandPlay(ctx, cfgLoaded.Config, logger)
	case cli.CommandJoke:
		return r.commandJoke(ctx, cfgLoaded.Config, logger)
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices() int {
	devices, err := camera.ListDevices()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no camera devices found")
		return 1
	}

	for _, device := range devices {
		readable := "yes"
		if !device.Readable {
			readable = "no"
		}
		fmt.Fprintf(r.Stdout, "%s | readable=%s\n", device.Path, readable)
	}

	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "not running")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.CommandStatus)
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		line := resp.State
		if line == "" {
			line = "not running"
		}
		if resp.Mood != "" {
			line += " (" + resp.Mood + ")"
		}
		fmt.Fprintln(r.Stdout, line)
		return 0
	}

	fmt.Fprintln(r.Stdout, "not running")
	return 0
}

func (r Runner) commandMood(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.CommandMood)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no active moodmate session")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Mood != "" {
		fmt.Fprintln(r.Stdout, resp.Mood)
		return 0
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, command)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no active moodmate session")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func (r Runner) commandPlay(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	if err := launcher.New(cfg.Playlist, logger).OpenPlaylist(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, "playlist opened")
	return 0
}

func (r Runner) commandJoke(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	joke := jokes.New(cfg.Jokes.Endpoint, 5*time.Second, logger).Tell(ctx)
	fmt.Fprintln(r.Stdout, joke)
	return 0
}

// commandRun owns the daemon lifecycle: socket acquisition, component
// wiring, IPC serving, and the session run loop.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: moodmate session already running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	cam, err := camera.Open(cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: open camera: %v\n", err)
		logger.Error("open camera failed", "device", cfg.Camera.Device, "error", err.Error())
		return 1
	}
	defer func() { _ = cam.Close() }()

	classify, closeClassifier, err := buildClassifier(cfg.Classifier)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeClassifier()

	trk := tracker.New(tracker.Config{
		Window:          cfg.Tracker.Window,
		StableThreshold: cfg.Tracker.StableThreshold,
	})
	var indicatorCtl indicator.Controller = indicator.NewDesktopNotify(cfg.Notify, logger)
	speaker := speech.NewSpeaker(cfg.Speech, logger)

	reactor := reaction.ReactorFunc(func(ctx context.Context, mood emotion.Label) {
		indicatorCtl.ShowMood(ctx, mood)
		speaker.Say(ctx, emotion.PromptFor(mood).Speech())
	})

	loop := sampler.New(cam, classify, trk,
		time.Duration(cfg.Sampling.IntervalMS)*time.Millisecond, logger)
	loop.ReportErrors(indicatorCtl)
	if cfg.Debug.EnableFrameDump {
		loop.EnableFrameDump()
	}
	gate := reaction.New(trk, reactor, reaction.Config{
		Poll:         time.Duration(cfg.Reaction.PollMS) * time.Millisecond,
		Debounce:     time.Duration(cfg.Reaction.DebounceMS) * time.Millisecond,
		PauseOnReact: cfg.Reaction.PauseOnReact,
	}, logger)

	controller := session.NewController(logger, trk, loop, gate, indicatorCtl)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	result := controller.Run(ctx)
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logSessionResult(logger, result)

	if result.Err != nil && !errors.Is(result.Err, context.Canceled) {
		fmt.Fprintf(r.Stderr, "error: %v\n", result.Err)
		return 1
	}
	if result.HasMood {
		fmt.Fprintf(r.Stdout, "last stable mood: %s\n", result.Mood)
	}
	return 0
}

// buildClassifier selects the inference backend from config.
func buildClassifier(cfg config.ClassifierConfig) (sampler.Classifier, func(), error) {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	switch cfg.Backend {
	case classifier.BackendHTTP:
		return classifier.NewHTTP(cfg.Endpoint, timeout), func() {}, nil
	case classifier.BackendSocket:
		socket := classifier.NewSocket(cfg.Endpoint, timeout)
		return socket, func() { _ = socket.Close() }, nil
	case classifier.BackendDemo:
		return classifier.NewDemo(time.Now().UnixNano()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", result.State,
		"mood", string(result.Mood),
		"has_mood", result.HasMood,
		"samples", result.Samples,
		"reactions", result.Reactions,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}

	if result.Err != nil && !errors.Is(result.Err, context.Canceled) {
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}

func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if ipc.IsSocketMissing(err) || ipc.IsConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}
