package lookup

import (
	"context"
	"feiji/internal/core/domain"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// StrokeOrder resolves stroke order animations from a URL template. The template may contain {codepoint}
// (lowercase hex) and {char} (path escaped). A HEAD request confirms the resource exists.
type StrokeOrder struct {
	client   *resty.Client
	template string
}

func NewStrokeOrder(template, userAgent string) *StrokeOrder {
	return &StrokeOrder{
		client:   newClient(userAgent),
		template: template,
	}
}

func (s *StrokeOrder) URL(char rune) string {
	return strings.NewReplacer(
		"{codepoint}", fmt.Sprintf("%x", char),
		"{char}", url.PathEscape(string(char)),
	).Replace(s.template)
}

func (s *StrokeOrder) Lookup(ctx context.Context, char rune) (string, error) {
	ref := s.URL(char)

	res, err := s.client.R().SetContext(ctx).Head(ref)
	if err != nil {
		return "", fmt.Errorf("error executing request: %w", err)
	}

	switch {
	case res.StatusCode() == http.StatusNotFound:
		return "", domain.ErrNotFound
	case res.IsError():
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode())
	}

	return ref, nil
}
