package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/moodmatehq/moodmate/internal/camera"
	"github.com/moodmatehq/moodmate/internal/emotion"
)

// HTTP classifies frames against a DeepFace-style sidecar: one POST of
// JPEG bytes to /detect per frame, JSON detection back.
type HTTP struct {
	endpoint string
	client   *http.Client
}

// NewHTTP builds an HTTP backend. The endpoint is the service base URL;
// a non-positive timeout defaults to 10s.
func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		endpoint: strings.TrimSuffix(strings.TrimSpace(endpoint), "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// Classify posts one frame and decodes the detection response.
func (h *HTTP) Classify(ctx context.Context, frame camera.Frame) (emotion.Label, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/detect", bytes.NewReader(frame.JPEG))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("detect %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var d detection
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return "", fmt.Errorf("detect decode: %w", err)
	}
	return d.label()
}

// Probe checks service reachability for doctor without running inference.
func (h *HTTP) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("health %s", resp.Status)
	}
	return nil
}
