// Package jokes fetches one-liners from a remote joke API with a local fallback.
package jokes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

var fallbackJokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"I told my computer I needed a break, and it said: 'No problem, I'll go to sleep.'",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
}

// Service fetches jokes over HTTP, falling back to a built-in list when
// the remote API is unreachable.
type Service struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New constructs a joke service for the given endpoint.
func New(endpoint string, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// jokePayload covers both single and two-part JokeAPI response shapes.
type jokePayload struct {
	Error    bool   `json:"error"`
	Type     string `json:"type"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
	Message  string `json:"message"`
}

// Tell returns a joke, preferring the remote API. It never fails; a dead
// endpoint yields a fallback joke.
func (s *Service) Tell(ctx context.Context) string {
	joke, err := s.fetch(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("joke fetch failed; using fallback", "error", err.Error())
		}
		return s.fallback()
	}
	return joke
}

// Fetch returns a joke from the remote API only.
func (s *Service) Fetch(ctx context.Context) (string, error) {
	return s.fetch(ctx)
}

func (s *Service) fetch(ctx context.Context) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("no joke endpoint configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build joke request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch joke: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("joke endpoint returned status %d", resp.StatusCode)
	}

	var payload jokePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode joke response: %w", err)
	}
	if payload.Error {
		message := payload.Message
		if message == "" {
			message = "unknown error"
		}
		return "", fmt.Errorf("joke endpoint error: %s", message)
	}

	switch {
	case payload.Joke != "":
		return payload.Joke, nil
	case payload.Setup != "" && payload.Delivery != "":
		return payload.Setup + " " + payload.Delivery, nil
	default:
		return "", fmt.Errorf("joke response contained no joke")
	}
}

func (s *Service) fallback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fallbackJokes[s.rng.Intn(len(fallbackJokes))]
}
