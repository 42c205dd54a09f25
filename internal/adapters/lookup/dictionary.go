package lookup

import (
	"context"
	"feiji/internal/core/domain"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Dictionary queries a JSON dictionary service. The service is called as GET {url}?q={query} and answers
// with {"entries": [{"headword": "", "reading": "", "translation": ""}]}.
type Dictionary struct {
	client *resty.Client
	url    string
}

func NewDictionary(url, userAgent string) *Dictionary {
	return &Dictionary{
		client: newClient(userAgent),
		url:    url,
	}
}

func (d *Dictionary) Lookup(ctx context.Context, query string) ([]domain.DictionaryEntry, error) {
	res, err := d.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetHeader("Accept", "application/json").
		Get(d.url)
	if err != nil {
		return nil, fmt.Errorf("error executing request: %w", err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode())
	}

	body := res.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid dictionary response for %q", query)
	}

	var entries []domain.DictionaryEntry
	gjson.GetBytes(body, "entries").ForEach(func(_, v gjson.Result) bool {
		e := domain.DictionaryEntry{
			Headword:    v.Get("headword").String(),
			Reading:     v.Get("reading").String(),
			Translation: v.Get("translation").String(),
		}
		if e.Headword != "" && e.Translation != "" {
			entries = append(entries, e)
		}
		return true
	})

	log.Debug().Str("query", query).Int("entries", len(entries)).Msg("dictionary lookup")

	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}

	return entries, nil
}
