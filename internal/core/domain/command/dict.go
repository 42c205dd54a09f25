package command

import (
	"context"
	"errors"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Dict looks up dictionary entries. When the dictionary has nothing, it falls back to machine translation
// if a translator is configured.
type Dict struct {
	dictionary port.Dictionary
	translator port.Translator
	languages  Languages
	maxEntries int
	command    string
}

type DictParams struct {
	Dictionary port.Dictionary
	Translator port.Translator
	Languages  Languages
	MaxEntries int
	Command    string
}

func NewDict(p DictParams) *Dict {
	if p.MaxEntries <= 0 {
		p.MaxEntries = 1
	}

	return &Dict{
		dictionary: p.Dictionary,
		translator: p.Translator,
		languages:  p.Languages,
		maxEntries: p.MaxEntries,
		command:    p.Command,
	}
}

func (d *Dict) GetCommand() string {
	return d.command
}

func (d *Dict) Run(ctx context.Context, arg string) *domain.Future {
	query := strings.TrimSpace(arg)
	if query == "" {
		return domain.Rejected(fmt.Errorf("%w: word to look up", domain.ErrEmptyArgument))
	}

	return domain.Async(ctx, func(ctx context.Context) (string, error) {
		entries, err := d.dictionary.Lookup(ctx, query)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("dictionary lookup failed: %w", err)
		}

		if len(entries) == 0 {
			if d.translator == nil {
				return "", fmt.Errorf("no entries for %s", query)
			}

			log.Debug().Str("command", d.command).Str("query", query).Msg("no dictionary entries, translating")
			return translate(ctx, d.translator, d.languages, query)
		}

		return formatEntries(entries, d.maxEntries), nil
	})
}

func formatEntries(entries []domain.DictionaryEntry, limit int) string {
	if len(entries) > limit {
		entries = entries[:limit]
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		if e.Reading != "" {
			parts[i] = fmt.Sprintf("%s [%s]: %s", e.Headword, e.Reading, e.Translation)
			continue
		}

		parts[i] = fmt.Sprintf("%s: %s", e.Headword, e.Translation)
	}

	return strings.Join(parts, " | ")
}
