package config

import (
	"fmt"
	"strings"

	"github.com/moodmatehq/moodmate/internal/classifier"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	backend := strings.ToLower(strings.TrimSpace(cfg.Classifier.Backend))
	switch backend {
	case classifier.BackendHTTP, classifier.BackendSocket, classifier.BackendDemo:
	case "":
		return nil, fmt.Errorf("classifier.backend must not be empty")
	default:
		return nil, fmt.Errorf("classifier.backend must be one of: http, socket, demo")
	}
	if backend != classifier.BackendDemo && strings.TrimSpace(cfg.Classifier.Endpoint) == "" {
		return nil, fmt.Errorf("classifier.endpoint must not be empty when classifier.backend=%s", backend)
	}
	if cfg.Classifier.TimeoutMS <= 0 {
		return nil, fmt.Errorf("classifier.timeout_ms must be > 0")
	}

	if strings.TrimSpace(cfg.Camera.Device) == "" {
		return nil, fmt.Errorf("camera.device must not be empty")
	}
	if cfg.Camera.Width <= 0 || cfg.Camera.Height <= 0 {
		return nil, fmt.Errorf("camera.width and camera.height must be > 0")
	}

	if cfg.Sampling.IntervalMS <= 0 {
		return nil, fmt.Errorf("sampling.interval_ms must be > 0")
	}

	if cfg.Tracker.Window <= 0 {
		return nil, fmt.Errorf("tracker.window must be > 0")
	}
	if cfg.Tracker.StableThreshold <= 0 {
		return nil, fmt.Errorf("tracker.stable_threshold must be > 0")
	}
	if cfg.Tracker.StableThreshold > cfg.Tracker.Window {
		return nil, fmt.Errorf("tracker.stable_threshold %d exceeds tracker.window %d", cfg.Tracker.StableThreshold, cfg.Tracker.Window)
	}

	if cfg.Reaction.PollMS <= 0 {
		return nil, fmt.Errorf("reaction.poll_ms must be > 0")
	}
	if cfg.Reaction.DebounceMS < 0 {
		return nil, fmt.Errorf("reaction.debounce_ms must be >= 0")
	}

	if cfg.Notify.Enable && strings.TrimSpace(cfg.Notify.AppName) == "" {
		return nil, fmt.Errorf("notify.app_name must not be empty when notify.enable=true")
	}
	if cfg.Notify.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("notify.error_timeout_ms must be >= 0")
	}

	if cfg.Speech.Enable {
		if cfg.Speech.Command.Raw != "" && len(cfg.Speech.Command.Argv) == 0 {
			return nil, fmt.Errorf("speech.command is configured but empty")
		}
		if len(cfg.Speech.Command.Argv) == 0 {
			return nil, fmt.Errorf("speech.command must not be empty when speech.enable=true")
		}
	}

	if strings.TrimSpace(cfg.Playlist.URI) == "" && strings.TrimSpace(cfg.Playlist.WebURL) == "" {
		warnings = append(warnings, Warning{Message: "playlist.uri and playlist.web_url are both empty; play reactions will be disabled"})
	}

	if cfg.Sampling.IntervalMS < 200 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("sampling.interval_ms=%d is aggressive; classifier latency may exceed the sample period", cfg.Sampling.IntervalMS)})
	}

	return warnings, nil
}
