package service

import (
	"context"
	"errors"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionFactory builds a fresh event handler for every new connection.
type SessionFactory func(ctx context.Context, conn port.Connection, lifecycle port.Lifecycle) port.EventHandler

// Transition is one observed connection state change.
type Transition struct {
	From domain.ConnectionState
	To   domain.ConnectionState
	At   time.Time
}

// Supervisor owns the connection lifecycle: it connects, joins the configured channels and reconnects with
// backoff whenever the connection is lost, handing every connection a new session.
type Supervisor struct {
	dialer       port.Dialer
	newSession   SessionFactory
	channels     []string
	maxAttempts  int
	sleep        func(ctx context.Context, d time.Duration) error
	onTransition func(Transition)

	mutex    *sync.Mutex
	state    domain.ConnectionState
	backoff  *Backoff
	conn     port.Connection
	failures int

	l *zerolog.Logger
}

type SupervisorParams struct {
	Dialer     port.Dialer
	NewSession SessionFactory
	Channels   []string
	Backoff    *Backoff
	// MaxAttempts caps consecutive failed reconnects. Zero retries forever.
	MaxAttempts int
	// Sleep waits between attempts. Defaults to a context aware timer.
	Sleep        func(ctx context.Context, d time.Duration) error
	OnTransition func(Transition)
}

func NewSupervisor(p SupervisorParams) *Supervisor {
	logger := log.With().Str("component", "supervisor").Logger()

	s := &Supervisor{
		dialer:       p.Dialer,
		newSession:   p.NewSession,
		channels:     p.Channels,
		maxAttempts:  p.MaxAttempts,
		sleep:        p.Sleep,
		onTransition: p.OnTransition,
		mutex:        &sync.Mutex{},
		state:        domain.Disconnected,
		backoff:      p.Backoff,
		l:            &logger,
	}

	if s.sleep == nil {
		s.sleep = sleepContext
	}

	if s.backoff == nil {
		s.backoff = NewBackoff(time.Second, 5*time.Minute, 2)
	}

	return s
}

// Run connects and keeps reconnecting until ctx is cancelled or the attempt cap is hit.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		s.transition(domain.Connecting)

		conn, err := s.dialer.Dial(ctx)
		if err != nil {
			s.l.Warn().Err(err).Msg("connect failed")
			s.transition(domain.Disconnected)

			if err := s.wait(ctx); err != nil {
				return err
			}

			continue
		}

		s.mutex.Lock()
		s.conn = conn
		s.mutex.Unlock()

		session := s.newSession(ctx, conn, s)
		err = conn.Run(ctx, session)

		// the transport reports the loss through the session, this covers transports that return silently
		s.Disconnected(err)

		s.mutex.Lock()
		s.conn = nil
		s.mutex.Unlock()

		if closeErr := conn.Close(); closeErr != nil {
			s.l.Debug().Err(closeErr).Msg("closing connection")
		}

		if ctx.Err() != nil {
			return nil
		}

		if err := s.wait(ctx); err != nil {
			return err
		}
	}
}

// Connected moves to Joining and requests membership in every configured channel. Without channels the
// connection is immediately active.
func (s *Supervisor) Connected() {
	s.mutex.Lock()
	conn := s.conn
	s.mutex.Unlock()

	if len(s.channels) == 0 {
		s.activate()
		return
	}

	s.transition(domain.Joining)

	if conn == nil {
		return
	}

	for _, channel := range s.channels {
		if err := conn.Join(channel); err != nil {
			s.l.Warn().Err(err).Str("channel", channel).Msg("failed to request join")
		}
	}
}

// Joined activates the connection on the first join acknowledgment.
func (s *Supervisor) Joined(channel string) {
	s.l.Info().Str("channel", channel).Msg("joined channel")

	if s.State() == domain.Joining {
		s.activate()
	}
}

// Disconnected records the loss of the connection. Repeated notifications are ignored.
func (s *Supervisor) Disconnected(err error) {
	if s.State() == domain.Disconnected {
		return
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		s.l.Warn().Err(err).Msg("connection lost")
	}

	s.transition(domain.Disconnected)
}

func (s *Supervisor) State() domain.ConnectionState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state
}

// Delay returns the delay the next reconnect would wait for.
func (s *Supervisor) Delay() time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.backoff.Current()
}

func (s *Supervisor) activate() {
	s.mutex.Lock()
	s.backoff.Reset()
	s.failures = 0
	s.mutex.Unlock()

	s.transition(domain.Active)
}

// wait sleeps for the current backoff delay and advances it.
func (s *Supervisor) wait(ctx context.Context) error {
	s.mutex.Lock()
	s.failures++
	failures := s.failures
	delay := s.backoff.Next()
	s.mutex.Unlock()

	if s.maxAttempts > 0 && failures > s.maxAttempts {
		s.l.Error().Int("attempts", failures-1).Msg("reconnect attempts exhausted")
		return domain.ErrReconnectExhausted
	}

	s.l.Info().Int("attempt", failures).Dur("delay", delay).Msg("scheduling reconnect")

	if err := s.sleep(ctx, delay); err != nil {
		s.l.Debug().Err(err).Msg("reconnect wait interrupted")
	}

	return nil
}

func (s *Supervisor) transition(to domain.ConnectionState) {
	s.mutex.Lock()
	from := s.state
	if from == to {
		s.mutex.Unlock()
		return
	}
	s.state = to
	s.mutex.Unlock()

	s.l.Info().Stringer("from", from).Stringer("to", to).Msg("connection state changed")

	if s.onTransition != nil {
		s.onTransition(Transition{From: from, To: to, At: time.Now()})
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
