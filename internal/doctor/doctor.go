// Package doctor runs runtime readiness diagnostics for config, camera,
// classifier, and desktop integration.
package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/classifier"
	"github.com/moodmatehq/moodmate/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkCamera(cfg.Config.Camera))
	checks = append(checks, checkClassifier(cfg.Config.Classifier))

	if cfg.Config.Notify.Enable {
		checks = append(checks, checkBinary("busctl", "desktop notifications require busctl"))
	}

	if cfg.Config.Speech.Enable {
		checks = append(checks, checkCommand(cfg.Config.Speech.Command.Argv, "speech.command"))
	}

	if strings.TrimSpace(cfg.Config.Playlist.URI) != "" || strings.TrimSpace(cfg.Config.Playlist.WebURL) != "" {
		checks = append(checks, checkBinary("xdg-open", "playlist launching requires xdg-open"))
	}

	return Report{Checks: checks}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkCamera opens the configured device and releases it immediately.
func checkCamera(cfg config.CameraConfig) Check {
	cam, err := camera.Open(cfg.Device, cfg.Width, cfg.Height)
	if err != nil {
		return Check{Name: "camera", Pass: false, Message: err.Error()}
	}
	_ = cam.Close()
	return Check{Name: "camera", Pass: true, Message: fmt.Sprintf("device %q opened at %dx%d", cfg.Device, cfg.Width, cfg.Height)}
}

// checkClassifier probes the configured inference backend.
func checkClassifier(cfg config.ClassifierConfig) Check {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case classifier.BackendHTTP:
		if err := classifier.NewHTTP(cfg.Endpoint, timeout).Probe(ctx); err != nil {
			return Check{Name: "classifier", Pass: false, Message: err.Error()}
		}
		return Check{Name: "classifier", Pass: true, Message: fmt.Sprintf("http backend ready at %s", cfg.Endpoint)}
	case classifier.BackendSocket:
		probe := classifier.NewSocket(cfg.Endpoint, timeout)
		defer probe.Close()
		if err := probe.Probe(ctx); err != nil {
			return Check{Name: "classifier", Pass: false, Message: err.Error()}
		}
		return Check{Name: "classifier", Pass: true, Message: fmt.Sprintf("socket backend ready at %s", cfg.Endpoint)}
	case classifier.BackendDemo:
		return Check{Name: "classifier", Pass: true, Message: "demo backend needs no endpoint"}
	default:
		return Check{Name: "classifier", Pass: false, Message: fmt.Sprintf("unknown backend %q", cfg.Backend)}
	}
}
