package command

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"fmt"
	"strings"
)

type Title struct {
	fetcher port.TitleFetcher
	command string
}

func NewTitle(fetcher port.TitleFetcher, command string) *Title {
	return &Title{fetcher: fetcher, command: command}
}

func (t *Title) GetCommand() string {
	return t.command
}

func (t *Title) Run(ctx context.Context, arg string) *domain.Future {
	url := strings.TrimSpace(arg)
	if url == "" {
		return domain.Rejected(fmt.Errorf("%w: url", domain.ErrEmptyArgument))
	}

	return domain.Async(ctx, func(ctx context.Context) (string, error) {
		title, err := t.fetcher.FetchTitle(ctx, url)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s -- \"%s\"", url, title), nil
	})
}
