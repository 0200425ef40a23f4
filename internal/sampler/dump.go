package sampler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moodmatehq/moodmate/internal/camera"
)

// writeFrameDump writes one captured JPEG under state/moodmate/frames.
// Failures are logged and never disturb the sampling loop.
func (l *Loop) writeFrameDump(frame camera.Frame) {
	if len(frame.JPEG) == 0 {
		return
	}

	path, err := createFrameDumpPath()
	if err != nil {
		l.log(slog.LevelWarn, "unable to create frame dump", err)
		return
	}

	if err := os.WriteFile(path, frame.JPEG, 0o600); err != nil {
		l.log(slog.LevelWarn, "unable to write frame dump", err)
	}
}

// createFrameDumpPath builds a timestamped artifact path under
// state/moodmate/frames, creating the directory on first use.
func createFrameDumpPath() (string, error) {
	stateDir, err := resolveStateDir()
	if err != nil {
		return "", err
	}
	framesDir := filepath.Join(stateDir, "moodmate", "frames")
	if err := os.MkdirAll(framesDir, 0o700); err != nil {
		return "", fmt.Errorf("create frames dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000")
	return filepath.Join(framesDir, fmt.Sprintf("frame-%s.jpg", timestamp)), nil
}

// resolveStateDir returns XDG_STATE_HOME fallback path for debug artifacts.
func resolveStateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state"), nil
}
