package command

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"strings"
)

// Help lists the registered commands. It reads the registry on every call so commands registered after
// Help itself are included.
type Help struct {
	registry port.CommandRegistry
	leader   string
	command  string
}

func NewHelp(registry port.CommandRegistry, leader, command string) *Help {
	return &Help{registry: registry, leader: leader, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

func (h *Help) Run(_ context.Context, _ string) *domain.Future {
	names := h.registry.ListCommands()

	prefixed := make([]string, len(names))
	for i, name := range names {
		prefixed[i] = h.leader + name
	}

	return domain.Resolved("Commands: " + strings.Join(prefixed, " "))
}
