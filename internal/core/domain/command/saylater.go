package command

import (
	"context"
	"feiji/internal/core/domain"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SayLater echoes a message back after a delay given in seconds.
type SayLater struct {
	maxDelay time.Duration
	command  string
}

func NewSayLater(maxDelay time.Duration, command string) *SayLater {
	return &SayLater{maxDelay: maxDelay, command: command}
}

func (s *SayLater) GetCommand() string {
	return s.command
}

func (s *SayLater) Run(ctx context.Context, arg string) *domain.Future {
	when, msg, _ := strings.Cut(arg, " ")

	seconds, err := strconv.Atoi(when)
	if err != nil {
		return domain.Rejected(fmt.Errorf("invalid delay %q, expected seconds", when))
	}

	delay := time.Duration(seconds) * time.Second
	if delay < 0 || delay > s.maxDelay {
		return domain.Rejected(fmt.Errorf("delay must be between 0 and %s", s.maxDelay))
	}

	log.Debug().Str("command", s.command).Dur("delay", delay).Msg("scheduling delayed reply")

	return domain.Async(ctx, func(ctx context.Context) (string, error) {
		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-t.C:
			return msg, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
}
