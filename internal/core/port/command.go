package port

import (
	"context"
	"feiji/internal/core/domain"
)

type Command interface {
	// Run starts the command with the raw argument string and returns a Future that resolves to the reply text.
	// Commands that complete immediately return domain.Resolved or domain.Rejected.
	Run(ctx context.Context, arg string) *domain.Future
	// GetCommand retrieves the command name the handler is registered under.
	GetCommand() string
}

type CommandRegistry interface {
	// Register adds a new command handler under its own name and any additional aliases.
	Register(handler Command, aliases ...string)
	// Get looks up a registered Command. A miss is not an error.
	Get(command string) (Command, bool)
	// ListCommands returns all registered command names, sorted.
	ListCommands() []string
}

type Executor interface {
	// Execute runs handler without blocking the caller and routes exactly one result back to origin.
	Execute(ctx context.Context, handler Command, arg string, origin domain.Origin)
}

type ReplyRouter interface {
	// Route formats result for origin and sends it. Sending is best-effort.
	Route(ctx context.Context, result domain.Result, origin domain.Origin)
}
