// Package speech speaks mood prompts through an external TTS command.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/moodmatehq/moodmate/internal/config"
)

const speakTimeout = 15 * time.Second

// Speaker dispatches text to the configured TTS command.
type Speaker struct {
	cfg    config.SpeechConfig
	logger *slog.Logger

	// serializes utterances so overlapping prompts do not talk over
	// each other
	mu sync.Mutex
}

// NewSpeaker constructs a speaker from runtime config.
func NewSpeaker(cfg config.SpeechConfig, logger *slog.Logger) *Speaker {
	return &Speaker{cfg: cfg, logger: logger}
}

// Say speaks text asynchronously. Failures are logged, never propagated;
// a broken TTS setup must not stall mood reactions.
func (s *Speaker) Say(ctx context.Context, text string) {
	if !s.cfg.Enable || text == "" {
		return
	}
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.speak(ctx, text); err != nil {
			s.log("speech dispatch failed", err)
		}
	}()
}

// SayBlocking speaks text and waits for the command to finish.
func (s *Speaker) SayBlocking(ctx context.Context, text string) error {
	if !s.cfg.Enable || text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speak(ctx, text)
}

// speak executes the configured argv with the utterance appended.
func (s *Speaker) speak(ctx context.Context, text string) error {
	argv := s.cfg.Command.Argv
	if len(argv) == 0 {
		return fmt.Errorf("speech command argv cannot be empty")
	}

	runCtx, cancel := context.WithTimeout(ctx, speakTimeout)
	defer cancel()

	args := make([]string, 0, len(argv))
	args = append(args, argv[1:]...)
	args = append(args, text)

	cmd := exec.CommandContext(runCtx, argv[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		trimmed := string(out)
		if trimmed == "" {
			return fmt.Errorf("run %s: %w", argv[0], err)
		}
		return fmt.Errorf("run %s: %w (%s)", argv[0], err, trimmed)
	}
	return nil
}

func (s *Speaker) log(message string, err error) {
	if s.logger == nil || err == nil {
		return
	}
	s.logger.Error(message, "error", err.Error())
}
