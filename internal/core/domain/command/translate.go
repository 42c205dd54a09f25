package command

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Languages holds the language pair the bot translates between.
type Languages struct {
	Native  string
	Foreign string
}

// Direction picks source and target language for text. ASCII input is assumed to be in the native language.
func (l Languages) Direction(text string) (string, string) {
	if domain.IsASCII(text) {
		return l.Native, l.Foreign
	}

	return l.Foreign, l.Native
}

type Translate struct {
	translator port.Translator
	languages  Languages
	command    string
}

func NewTranslate(translator port.Translator, languages Languages, command string) *Translate {
	return &Translate{translator: translator, languages: languages, command: command}
}

func (t *Translate) GetCommand() string {
	return t.command
}

func (t *Translate) Run(ctx context.Context, arg string) *domain.Future {
	text := strings.TrimSpace(arg)
	if text == "" {
		return domain.Rejected(fmt.Errorf("%w: text to translate", domain.ErrEmptyArgument))
	}

	return domain.Async(ctx, func(ctx context.Context) (string, error) {
		return translate(ctx, t.translator, t.languages, text)
	})
}

func translate(ctx context.Context, translator port.Translator, languages Languages, text string) (string, error) {
	source, target := languages.Direction(text)

	log.Debug().Str("source", source).Str("target", target).Msg("translating")

	translated, err := translator.Translate(ctx, text, source, target)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	return translated, nil
}
