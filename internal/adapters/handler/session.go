package handler

import (
	"context"
	"feiji/internal/core/domain"
	"feiji/internal/core/domain/command"
	"feiji/internal/core/port"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session handles the events of a single relay connection. It is discarded when the connection ends.
type Session struct {
	registry  port.CommandRegistry
	executor  port.Executor
	lifecycle port.Lifecycle
	identity  func() string
	leader    string

	ready  atomic.Bool
	closed atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc

	l *zerolog.Logger
}

type SessionParams struct {
	Registry  port.CommandRegistry
	Executor  port.Executor
	Lifecycle port.Lifecycle
	// Identity returns the bot's current nick on the connection.
	Identity func() string
	Leader   string
}

func NewSession(ctx context.Context, p SessionParams) *Session {
	logger := log.With().Str("component", "session").Logger()
	ctx, cancel := context.WithCancel(ctx)

	return &Session{
		registry:  p.Registry,
		executor:  p.Executor,
		lifecycle: p.Lifecycle,
		identity:  p.Identity,
		leader:    p.Leader,
		ctx:       ctx,
		cancel:    cancel,
		l:         &logger,
	}
}

func (s *Session) OnConnected() {
	s.l.Info().Str("nick", s.identity()).Msg("registered with server")
	s.lifecycle.Connected()
}

func (s *Session) OnJoin(channel string) {
	if !s.ready.Swap(true) {
		s.l.Debug().Str("channel", channel).Msg("session ready")
	}

	s.lifecycle.Joined(channel)
}

func (s *Session) OnMessage(sender, source, text string) {
	if s.closed.Load() {
		return
	}

	self := s.identity()
	msg := domain.IncomingMessage{Sender: sender, Source: source, Text: text}

	if source != self && !s.ready.Load() {
		s.l.Debug().Str("source", source).Msg("dropping channel message before join")
		return
	}

	cmd, ok := command.Parse(msg, s.leader, self)
	if !ok {
		return
	}

	handler, ok := s.registry.Get(cmd.Name)
	if !ok {
		s.l.Debug().Str("command", cmd.Name).Msg("no handler for command")
		return
	}

	s.executor.Execute(s.ctx, handler, cmd.Argument, cmd.Origin)
}

// OnDisconnected stops command processing, cancels outstanding work and notifies the lifecycle owner.
func (s *Session) OnDisconnected(err error) {
	if s.closed.Swap(true) {
		return
	}

	s.cancel()
	s.lifecycle.Disconnected(err)
}
