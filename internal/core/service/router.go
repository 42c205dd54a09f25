package service

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	sendTimeout   = 10 * time.Second
	minBodyLength = 16
)

// Router addresses results and hands them to the transport.
type Router struct {
	sender    port.TextSender
	lineLimit int
}

// NewRouter returns a router that addresses every line of a reply. Lines longer than lineLimit bytes, prefix
// included, are broken up first. A lineLimit <= 0 only breaks at newlines.
func NewRouter(sender port.TextSender, lineLimit int) *Router {
	return &Router{sender: sender, lineLimit: lineLimit}
}

// Route sends result to the reply target derived from origin. Success and failure text are addressed the
// same way. The send gets its own deadline so an expired command context does not swallow the reply.
func (r *Router) Route(ctx context.Context, result domain.Result, origin domain.Origin) {
	target := origin.ReplyTarget()

	l := log.With().
		Str("destination", target.Destination).
		Str("nick", origin.Sender).
		Bool("failed", result.Failed).
		Logger()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	for _, line := range domain.SplitLines(result.Text, r.bodyLimit(target)) {
		if err := r.sender.SendMessage(ctx, target.Destination, target.Format(line)); err != nil {
			l.Warn().Err(err).Msg("failed to send reply")
			return
		}
	}

	l.Debug().Msg("reply sent")
}

// bodyLimit is the room left for reply text once the address is prepended.
func (r *Router) bodyLimit(target domain.ReplyTarget) int {
	if r.lineLimit <= 0 {
		return 0
	}

	limit := r.lineLimit - len(target.Format(""))
	if limit < minBodyLength {
		limit = minBodyLength
	}

	return limit
}
