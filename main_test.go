package main

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/service"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopRouter struct{}

func (nopRouter) Route(_ context.Context, _ domain.Result, _ domain.Origin) {}

type blockingCommand struct {
	release chan struct{}
}

func (c *blockingCommand) GetCommand() string {
	return "block"
}

func (c *blockingCommand) Run(ctx context.Context, _ string) *domain.Future {
	return domain.Async(ctx, func(_ context.Context) (string, error) {
		<-c.release
		return "", nil
	})
}

func TestBusyExecutors(t *testing.T) {
	idle := service.NewExecutor(service.ExecutorParams{Router: nopRouter{}})
	busy := service.NewExecutor(service.ExecutorParams{Router: nopRouter{}})

	cmd := &blockingCommand{release: make(chan struct{})}
	busy.Execute(t.Context(), cmd, "", domain.Origin{Context: "#room", Sender: "alice", Self: "feiji"})

	got := busyExecutors([]*service.Executor{idle, busy, idle})
	assert.Equal(t, []*service.Executor{busy}, got)

	close(cmd.release)
	assert.NoError(t, busy.Wait(t.Context()))
	assert.Empty(t, busyExecutors(got))
}
