package port

import (
	"context"
	"feiji/internal/core/domain"
)

type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

type Dictionary interface {
	Lookup(ctx context.Context, query string) ([]domain.DictionaryEntry, error)
}

type StrokeOrder interface {
	// Lookup returns a reference (usually a URL) to the stroke order resource for character.
	Lookup(ctx context.Context, character rune) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
