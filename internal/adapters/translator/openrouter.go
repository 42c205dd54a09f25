package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revrost/go-openrouter"
	"github.com/rs/zerolog/log"
)

const DefaultModel = "openai/gpt-4.1-mini"

type completionClient interface {
	CreateChatCompletion(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

// OpenRouter translates text through a chat completion model.
type OpenRouter struct {
	client completionClient
	model  string
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	if model == "" {
		model = DefaultModel
	}

	return &OpenRouter{
		model: model,
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("feiji"),
		),
	}
}

func (o *OpenRouter) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	ccr := openrouter.ChatCompletionRequest{
		Model: o.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: systemPrompt(sourceLang, targetLang)},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: text},
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", fmt.Errorf("openrouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in openrouter response")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content.Text)
	if translated == "" {
		return "", errors.New("empty translation")
	}

	ev := log.Debug().Str("model", resp.Model)
	if resp.Usage != nil {
		ev = ev.Int("total_tokens", resp.Usage.TotalTokens)
	}
	ev.Msg("translated")

	return translated, nil
}

func systemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf("Translate the user's message from %s to %s. "+
		"Reply with the translation only, on a single line, without quotes or commentary.",
		sourceLang, targetLang)
}
