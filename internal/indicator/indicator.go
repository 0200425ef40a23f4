// Package indicator handles desktop mood notifications and audio cue playback.
package indicator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/moodmatehq/moodmate/internal/config"
	"github.com/moodmatehq/moodmate/internal/emotion"
)

// Controller is the session-facing notification contract.
type Controller interface {
	ShowMood(context.Context, emotion.Label)
	ShowPaused(context.Context)
	ShowResumed(context.Context)
	ShowError(context.Context, string)
	CueStop(context.Context)
	Hide(context.Context)
}

// DesktopNotify is the concrete indicator implementation used by runtime
// sessions. It routes mood prompts through freedesktop notifications and
// plays short synthesized cues over PulseAudio.
type DesktopNotify struct {
	cfg    config.NotifyConfig
	logger *slog.Logger

	mu             sync.Mutex
	notificationID uint32
	soundMu        sync.Mutex
}

// NewDesktopNotify creates a notification controller from config.
func NewDesktopNotify(cfg config.NotifyConfig, logger *slog.Logger) *DesktopNotify {
	return &DesktopNotify{
		cfg:    cfg,
		logger: logger,
	}
}

// ShowMood announces a stable mood verdict and emits the mood cue.
func (d *DesktopNotify) ShowMood(ctx context.Context, label emotion.Label) {
	d.playCue(cueMood)
	if !d.cfg.Enable {
		return
	}
	prompt := emotion.PromptFor(label)
	summary := fmt.Sprintf("%s %s", prompt.Emoji, prompt.Title)
	d.run(ctx, func(ctx context.Context) error {
		return d.notify(ctx, summary, prompt.Subtitle, 0)
	})
}

// ShowPaused signals that sampling is paused and emits the pause cue.
func (d *DesktopNotify) ShowPaused(ctx context.Context) {
	d.playCue(cuePause)
	if !d.cfg.Enable {
		return
	}
	d.run(ctx, func(ctx context.Context) error {
		return d.notify(ctx, "Mood tracking paused", "", 0)
	})
}

// ShowResumed signals that sampling resumed and emits the resume cue.
func (d *DesktopNotify) ShowResumed(ctx context.Context) {
	d.playCue(cueResume)
	if !d.cfg.Enable {
		return
	}
	d.run(ctx, func(ctx context.Context) error {
		return d.notify(ctx, "Watching for your mood", "", 0)
	})
}

// ShowError displays an error-state notification.
func (d *DesktopNotify) ShowError(ctx context.Context, text string) {
	d.playCue(cueError)
	if !d.cfg.Enable {
		return
	}
	if text == "" {
		text = "Mood detection error"
	}
	timeout := d.cfg.ErrorTimeoutMS
	if timeout <= 0 {
		timeout = 1200
	}
	d.run(ctx, func(ctx context.Context) error {
		return d.notify(ctx, text, "", timeout)
	})
}

// CueStop emits the shutdown cue.
func (d *DesktopNotify) CueStop(context.Context) {
	d.playCue(cueStop)
}

// Hide dismisses the active notification.
func (d *DesktopNotify) Hide(ctx context.Context) {
	if !d.cfg.Enable {
		return
	}
	d.run(ctx, d.dismiss)
}

// notify sends a replaceable desktop notification and stores its ID.
func (d *DesktopNotify) notify(ctx context.Context, summary, body string, timeoutMS int) error {
	d.mu.Lock()
	replaceID := d.notificationID
	d.mu.Unlock()

	appName := strings.TrimSpace(d.cfg.AppName)
	if appName == "" {
		appName = "moodmate"
	}

	id, err := desktopNotify(ctx, appName, replaceID, summary, body, timeoutMS)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.notificationID = id
	d.mu.Unlock()
	return nil
}

// dismiss closes the current notification ID when present.
func (d *DesktopNotify) dismiss(ctx context.Context) error {
	d.mu.Lock()
	id := d.notificationID
	d.notificationID = 0
	d.mu.Unlock()

	if id == 0 {
		return nil
	}
	return desktopDismiss(ctx, id)
}

// run executes a notification operation with a bounded timeout.
func (d *DesktopNotify) run(ctx context.Context, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()
	if err := fn(runCtx); err != nil {
		d.log("notification dispatch failed", err)
	}
}

// playCue serializes cue playback and emits audio asynchronously.
func (d *DesktopNotify) playCue(kind cueKind) {
	if !d.cfg.SoundEnable {
		return
	}
	go func() {
		d.soundMu.Lock()
		defer d.soundMu.Unlock()
		if err := emitCue(kind); err != nil {
			d.log("audio cue failed", err)
		}
	}()
}

// log emits debug-only notification failures to the runtime logger.
func (d *DesktopNotify) log(message string, err error) {
	if d.logger == nil || err == nil {
		return
	}
	d.logger.Debug(message, "error", err.Error())
}
