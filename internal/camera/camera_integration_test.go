//go:build integration

package camera

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWebcamCapturesOneFrameIntegration(t *testing.T) {
	cam, err := Open("0", 0, 0)
	require.NoError(t, err)
	defer cam.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	frame, err := cam.Frame(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, frame.JPEG)
	require.Positive(t, frame.Width)
	require.Positive(t, frame.Height)
}
