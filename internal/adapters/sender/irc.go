package sender

import (
	"context"
	"errors"
	"feiji/internal/core/domain"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/irc.v4"
)

// DefaultLineLimit keeps PRIVMSG lines well below the 512 byte protocol limit once the prefix is added.
const DefaultLineLimit = 400

type MessageWriter interface {
	WriteMessage(m *irc.Message) error
}

type IRC struct {
	writer    MessageWriter
	lineLimit int
}

func NewIRC(writer MessageWriter, lineLimit int) *IRC {
	if lineLimit <= 0 {
		lineLimit = DefaultLineLimit
	}

	return &IRC{writer: writer, lineLimit: lineLimit}
}

// SendMessage writes text as one PRIVMSG per line, splitting lines longer than the line limit.
func (s *IRC) SendMessage(ctx context.Context, target, text string) error {
	if target == "" {
		return errors.New("empty target")
	}

	for i, line := range domain.SplitLines(text, s.lineLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.writer.WriteMessage(&irc.Message{
			Command: "PRIVMSG",
			Params:  []string{target, line},
		})
		if err != nil {
			log.Error().Err(err).Str("target", target).Int("line", i).Msg("failed to write message")
			return fmt.Errorf("failed to send message: %w", err)
		}
	}

	return nil
}
