package command

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Stroke struct {
	strokes port.StrokeOrder
	command string
}

func NewStroke(strokes port.StrokeOrder, command string) *Stroke {
	return &Stroke{strokes: strokes, command: command}
}

func (s *Stroke) GetCommand() string {
	return s.command
}

func (s *Stroke) Run(ctx context.Context, arg string) *domain.Future {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return domain.Rejected(fmt.Errorf("%w: character", domain.ErrEmptyArgument))
	}

	char, _ := utf8.DecodeRuneInString(arg)

	return domain.Async(ctx, func(ctx context.Context) (string, error) {
		ref, err := s.strokes.Lookup(ctx, char)
		if err != nil {
			return "", fmt.Errorf("no stroke order for %c: %w", char, err)
		}

		return fmt.Sprintf("%c: %s", char, ref), nil
	})
}
