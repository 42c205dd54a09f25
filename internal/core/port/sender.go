package port

import "context"

type TextSender interface {
	// SendMessage sends text to a channel or nick. Multi-line or overlong text may be split into several messages.
	SendMessage(ctx context.Context, target, text string) error
}
