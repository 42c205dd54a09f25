package handler

import (
	"context"
	"errors"
	"feiji/internal/core/domain"
	"feiji/internal/core/domain/command"
	"feiji/internal/core/port"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, handler port.Command, arg string, origin domain.Origin) {
	m.Called(ctx, handler, arg, origin)
}

type MockLifecycle struct {
	mock.Mock
}

func (m *MockLifecycle) Connected() {
	m.Called()
}

func (m *MockLifecycle) Joined(channel string) {
	m.Called(channel)
}

func (m *MockLifecycle) Disconnected(err error) {
	m.Called(err)
}

func newTestSession(t *testing.T, ex *MockExecutor, lc *MockLifecycle, leader string) *Session {
	t.Helper()

	registry := command.NewRegistry()
	registry.Register(command.NewPing("ping"))
	registry.Register(command.NewHelp(registry, leader, "help"), "?")

	return NewSession(t.Context(), SessionParams{
		Registry:  registry,
		Executor:  ex,
		Lifecycle: lc,
		Identity:  func() string { return "feiji" },
		Leader:    leader,
	})
}

func TestSession_OnMessage(t *testing.T) {
	type testcase struct {
		name       string
		leader     string
		sender     string
		source     string
		text       string
		joined     bool
		wantCalled bool
		wantCmd    string
		wantArg    string
		wantOrigin domain.Origin
	}

	tests := []testcase{
		{
			name:       "channel command",
			leader:     "!",
			sender:     "alice!alice@example.org",
			source:     "#room",
			text:       "!ping",
			joined:     true,
			wantCalled: true,
			wantCmd:    "ping",
			wantOrigin: domain.Origin{Context: "#room", Sender: "alice", Self: "feiji"},
		},
		{
			name:       "direct command with custom leader",
			leader:     ".",
			sender:     "bob!bob@example.org",
			source:     "feiji",
			text:       ".help",
			wantCalled: true,
			wantCmd:    "help",
			wantOrigin: domain.Origin{Context: "feiji", Sender: "bob", Self: "feiji"},
		},
		{
			name:       "symbol alias",
			leader:     "!",
			sender:     "bob",
			source:     "#room",
			text:       "!? topics",
			joined:     true,
			wantCalled: true,
			wantCmd:    "help",
			wantArg:    "topics",
			wantOrigin: domain.Origin{Context: "#room", Sender: "bob", Self: "feiji"},
		},
		{
			name:   "plain chatter",
			leader: "!",
			sender: "alice!alice@example.org",
			source: "#room",
			text:   "hello there",
			joined: true,
		},
		{
			name:   "unknown command",
			leader: "!",
			sender: "alice!alice@example.org",
			source: "#room",
			text:   "!unknown",
			joined: true,
		},
		{
			name:   "command names are case sensitive",
			leader: "!",
			sender: "alice!alice@example.org",
			source: "#room",
			text:   "!PING",
			joined: true,
		},
		{
			name:   "channel message before join",
			leader: "!",
			sender: "alice!alice@example.org",
			source: "#room",
			text:   "!ping",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ex := new(MockExecutor)
			lc := new(MockLifecycle)
			lc.On("Joined", mock.Anything)

			if tc.wantCalled {
				ex.On("Execute", mock.Anything, mock.MatchedBy(func(h port.Command) bool {
					return h.GetCommand() == tc.wantCmd
				}), tc.wantArg, tc.wantOrigin).Once()
			}

			s := newTestSession(t, ex, lc, tc.leader)
			if tc.joined {
				s.OnJoin("#room")
			}

			s.OnMessage(tc.sender, tc.source, tc.text)

			ex.AssertExpectations(t)
			if !tc.wantCalled {
				assert.Empty(t, ex.Calls)
			}
		})
	}
}

func TestSession_Lifecycle(t *testing.T) {
	ex := new(MockExecutor)
	lc := new(MockLifecycle)

	dropped := errors.New("connection reset")
	lc.On("Connected").Once()
	lc.On("Joined", "#room").Once()
	lc.On("Disconnected", dropped).Once()

	s := newTestSession(t, ex, lc, "!")

	s.OnConnected()
	s.OnJoin("#room")
	s.OnDisconnected(dropped)
	s.OnDisconnected(errors.New("second notification"))

	assert.Error(t, s.ctx.Err())

	s.OnMessage("alice!a@host", "#room", "!ping")

	lc.AssertExpectations(t)
	assert.Empty(t, ex.Calls)
}
