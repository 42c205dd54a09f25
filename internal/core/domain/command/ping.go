package command

import (
	"context"
	"feiji/internal/core/domain"
)

type Ping struct {
	command string
}

func NewPing(command string) *Ping {
	return &Ping{command: command}
}

func (p *Ping) GetCommand() string {
	return p.command
}

func (p *Ping) Run(_ context.Context, _ string) *domain.Future {
	return domain.Resolved("Pong.")
}
