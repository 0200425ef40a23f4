// Package launcher opens the configured playlist through the desktop opener.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/moodmatehq/moodmate/internal/config"
)

const openTimeout = 5 * time.Second

// Launcher opens playlist targets via the desktop URI handler.
type Launcher struct {
	cfg    config.PlaylistConfig
	logger *slog.Logger

	// openerArgv is xdg-open unless overridden in tests
	openerArgv []string
}

// New constructs a playlist launcher from runtime config.
func New(cfg config.PlaylistConfig, logger *slog.Logger) *Launcher {
	return &Launcher{
		cfg:        cfg,
		logger:     logger,
		openerArgv: []string{"xdg-open"},
	}
}

// OpenPlaylist opens the Spotify desktop URI, falling back to the web
// URL when the URI handler is unavailable.
func (l *Launcher) OpenPlaylist(ctx context.Context) error {
	uri := strings.TrimSpace(l.cfg.URI)
	web := strings.TrimSpace(l.cfg.WebURL)
	if uri == "" && web == "" {
		return fmt.Errorf("no playlist target configured")
	}

	if uri != "" {
		if err := l.open(ctx, uri); err == nil {
			return nil
		} else if web == "" {
			return fmt.Errorf("open playlist uri: %w", err)
		} else if l.logger != nil {
			l.logger.Debug("playlist uri handler failed; trying web url", "error", err.Error())
		}
	}

	if err := l.open(ctx, web); err != nil {
		return fmt.Errorf("open playlist web url: %w", err)
	}
	return nil
}

// open dispatches one target through the opener with a bounded timeout.
func (l *Launcher) open(ctx context.Context, target string) error {
	runCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	argv := append(append([]string{}, l.openerArgv...), target)
	out, err := exec.CommandContext(runCtx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("run %s: %w", argv[0], err)
		}
		return fmt.Errorf("run %s: %w (%s)", argv[0], err, trimmed)
	}
	return nil
}
