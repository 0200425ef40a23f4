// Package camera owns the webcam handle and exposes single-frame capture.
package camera

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ErrNoFrame reports a read that produced no usable frame. Samplers treat
// it as a skipped tick rather than a failure.
var ErrNoFrame = errors.New("camera produced no frame")

// Frame is one captured webcam image, JPEG-encoded for transport.
type Frame struct {
	JPEG       []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// Webcam wraps one OpenCV capture device. Methods are safe for
// concurrent use; the device itself is owned exclusively by this type.
type Webcam struct {
	mu     sync.Mutex
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	closed bool
}

// Open acquires the capture device. The device spec is either a numeric
// index ("0") or a path ("/dev/video0"). Zero width/height keeps the
// driver default capture size.
func Open(device string, width, height int) (*Webcam, error) {
	cap, err := openDevice(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %q: %w", device, err)
	}

	if width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	return &Webcam{cap: cap, mat: gocv.NewMat()}, nil
}

func openDevice(device string) (*gocv.VideoCapture, error) {
	if index, err := strconv.Atoi(device); err == nil {
		return gocv.OpenVideoCapture(index)
	}
	return gocv.OpenVideoCapture(device)
}

// Frame grabs and JPEG-encodes the latest image. It returns ErrNoFrame
// when the device yields nothing, so callers can skip the tick.
func (w *Webcam) Frame(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Frame{}, errors.New("camera is closed")
	}
	if ok := w.cap.Read(&w.mat); !ok || w.mat.Empty() {
		return Frame{}, ErrNoFrame
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.mat)
	if err != nil {
		return Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())

	return Frame{
		JPEG:       jpeg,
		Width:      w.mat.Cols(),
		Height:     w.mat.Rows(),
		CapturedAt: time.Now(),
	}, nil
}

// Close releases the capture device. Safe to call more than once.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.mat.Close()
	return w.cap.Close()
}
