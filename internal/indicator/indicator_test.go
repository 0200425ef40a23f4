package indicator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/moodmatehq/moodmate/internal/config"
	"github.com/moodmatehq/moodmate/internal/emotion"
)

var _ Controller = (*DesktopNotify)(nil)

func TestDisabledNotifyIsSilent(t *testing.T) {
	d := NewDesktopNotify(config.NotifyConfig{Enable: false, SoundEnable: false}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// no busctl or pulse access should be attempted
	d.ShowMood(ctx, emotion.Happy)
	d.ShowPaused(ctx)
	d.ShowResumed(ctx)
	d.ShowError(ctx, "camera unavailable")
	d.Hide(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	require.Zero(t, d.notificationID)
}

func TestDismissWithoutNotificationIsNoop(t *testing.T) {
	d := NewDesktopNotify(config.NotifyConfig{Enable: true, AppName: "moodmate"}, nil)

	require.NoError(t, d.dismiss(context.Background()))
}
