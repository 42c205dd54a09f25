package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const DefaultMaxBodyBytes = 1 << 20

// TitleFetcher downloads a page and extracts the text of its <title> element.
type TitleFetcher struct {
	client       *resty.Client
	maxBodyBytes int64
}

func NewTitleFetcher(userAgent string, maxBodyBytes int64) *TitleFetcher {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &TitleFetcher{
		client:       newClient(userAgent),
		maxBodyBytes: maxBodyBytes,
	}
}

func (f *TitleFetcher) FetchTitle(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		err = fmt.Errorf("error executing request: %w", err)
		log.Error().Err(err).Str("url", url).Send()
		return "", err
	}

	body := res.RawBody()
	defer body.Close()

	if res.IsError() {
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode())
	}

	r, err := charset.NewReader(io.LimitReader(body, f.maxBodyBytes), res.Header().Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("error decoding page: %w", err)
	}

	title, err := extractTitle(r)
	if err != nil {
		return "", err
	}

	log.Debug().Str("url", url).Str("title", title).Msg("fetched title")

	return title, nil
}

// extractTitle joins every text node of the first <title> element. A page without a title yields "".
func extractTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)

	var (
		inTitle bool
		parts   []string
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("error parsing page: %w", err)
			}

			return collapse(parts), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" && inTitle {
				return collapse(parts), nil
			}
		case html.TextToken:
			if inTitle {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}

func collapse(parts []string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
