package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty backend", mutate: func(c *Config) { c.Classifier.Backend = "" }, wantErr: "classifier.backend"},
		{name: "unknown backend", mutate: func(c *Config) { c.Classifier.Backend = "grpc" }, wantErr: "one of"},
		{name: "missing endpoint", mutate: func(c *Config) { c.Classifier.Endpoint = "" }, wantErr: "classifier.endpoint"},
		{name: "zero timeout", mutate: func(c *Config) { c.Classifier.TimeoutMS = 0 }, wantErr: "timeout_ms"},
		{name: "empty camera device", mutate: func(c *Config) { c.Camera.Device = " " }, wantErr: "camera.device"},
		{name: "bad geometry", mutate: func(c *Config) { c.Camera.Height = 0 }, wantErr: "camera.width"},
		{name: "zero interval", mutate: func(c *Config) { c.Sampling.IntervalMS = 0 }, wantErr: "interval_ms"},
		{name: "zero window", mutate: func(c *Config) { c.Tracker.Window = 0 }, wantErr: "tracker.window"},
		{name: "zero threshold", mutate: func(c *Config) { c.Tracker.StableThreshold = 0 }, wantErr: "stable_threshold"},
		{name: "threshold above window", mutate: func(c *Config) { c.Tracker.StableThreshold = 8 }, wantErr: "exceeds"},
		{name: "zero poll", mutate: func(c *Config) { c.Reaction.PollMS = 0 }, wantErr: "poll_ms"},
		{name: "negative debounce", mutate: func(c *Config) { c.Reaction.DebounceMS = -1 }, wantErr: "debounce_ms"},
		{name: "notify without app name", mutate: func(c *Config) { c.Notify.AppName = "" }, wantErr: "notify.app_name"},
		{name: "negative error timeout", mutate: func(c *Config) { c.Notify.ErrorTimeoutMS = -1 }, wantErr: "error_timeout_ms"},
		{name: "speech raw but empty argv", mutate: func(c *Config) {
			c.Speech.Command = CommandConfig{Raw: "   "}
		}, wantErr: "speech.command is configured"},
		{name: "speech enabled without command", mutate: func(c *Config) {
			c.Speech.Command = CommandConfig{}
		}, wantErr: "speech.command must not be empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateDemoBackendNeedsNoEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Backend = "demo"
	cfg.Classifier.Endpoint = ""

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateWarnsOnEmptyPlaylistAndFastSampling(t *testing.T) {
	cfg := Default()
	cfg.Playlist = PlaylistConfig{}
	cfg.Sampling.IntervalMS = 100

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	require.Contains(t, warnings[0].Message, "play reactions will be disabled")
	require.Contains(t, warnings[1].Message, "aggressive")
}
