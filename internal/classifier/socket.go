package classifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/emotion"
)

// Socket classifies frames over one persistent websocket session:
// binary JPEG messages out, JSON detections back, in lockstep. The
// connection is dialed lazily and redialed after any transport error,
// so a restarted inference server costs one skipped tick.
type Socket struct {
	url     string
	timeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewSocket builds a websocket backend for a ws:// or wss:// URL.
// A non-positive timeout defaults to 10s.
func NewSocket(url string, timeout time.Duration) *Socket {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Socket{url: url, timeout: timeout}
}

// Classify sends one frame and waits for its detection.
func (s *Socket) Classify(ctx context.Context, frame camera.Frame) (emotion.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.ensureConn(ctx)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(s.timeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return "", s.drop(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.JPEG); err != nil {
		return "", s.drop(fmt.Errorf("send frame: %w", err))
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return "", s.drop(err)
	}
	var d detection
	if err := conn.ReadJSON(&d); err != nil {
		return "", s.drop(fmt.Errorf("read detection: %w", err))
	}
	return d.label()
}

// Close shuts the session down. Safe when never dialed.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Probe dials the endpoint to confirm it accepts websocket upgrades,
// reusing the session for later Classify calls.
func (s *Socket) Probe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.ensureConn(ctx)
	return err
}

// ensureConn dials when no live session exists. Caller holds s.mu.
func (s *Socket) ensureConn(ctx context.Context) (*websocket.Conn, error) {
	if s.conn != nil {
		return s.conn, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial classifier %q: %w", s.url, err)
	}
	s.conn = conn
	return conn, nil
}

// drop closes a broken session so the next Classify redials.
// Caller holds s.mu.
func (s *Socket) drop(err error) error {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	return err
}
