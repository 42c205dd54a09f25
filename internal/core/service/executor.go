package service

import (
	"context"
	"errors"
	"feiji/internal/core/domain"
	"feiji/internal/core/port"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const maxFailureLength = 200

// Executor runs command handlers and pipes their single terminal result into the reply router.
type Executor struct {
	router   port.ReplyRouter
	tracker  Tracker
	timeout  time.Duration
	timeouts map[string]time.Duration
	wg       *sync.WaitGroup
	inFlight atomic.Int64
}

type ExecutorParams struct {
	Router  port.ReplyRouter
	Tracker Tracker
	// Timeout bounds every command that has no entry in Timeouts. Zero disables the bound.
	Timeout  time.Duration
	Timeouts map[string]time.Duration
}

func NewExecutor(p ExecutorParams) *Executor {
	return &Executor{
		router:   p.Router,
		tracker:  p.Tracker,
		timeout:  p.Timeout,
		timeouts: p.Timeouts,
		wg:       &sync.WaitGroup{},
	}
}

// Execute invokes handler and returns without waiting for its result. Exactly one result is routed to
// origin, whether the handler resolves immediately, later, fails, panics or runs out of time.
func (e *Executor) Execute(ctx context.Context, handler port.Command, arg string, origin domain.Origin) {
	command := handler.GetCommand()

	l := log.With().
		Str("request", uuid.Must(uuid.NewV4()).String()).
		Str("command", command).
		Str("nick", origin.Sender).
		Str("context", origin.Context).
		Logger()

	l.Info().Str("arg", arg).Msg("handling request")

	if e.tracker != nil && !e.tracker.Acquire(origin.Sender) {
		l.Info().Msg("too many pending commands, rejecting")

		e.track()
		go func() {
			defer e.untrack()
			e.router.Route(ctx, domain.Failure(domain.ErrBusy.Error()), origin)
		}()

		return
	}

	ctx, cancel := e.commandContext(ctx, command)
	started := time.Now()
	future := invoke(ctx, handler, arg)

	e.track()
	go func() {
		defer e.untrack()
		defer cancel()

		if e.tracker != nil {
			defer e.tracker.Release(origin.Sender)
		}

		var result domain.Result

		text, err := future.Await(ctx)
		if err != nil {
			l.Warn().Err(err).Dur("took", time.Since(started)).Msg("command failed")
			result = domain.Failure(FailureMessage(err))
		} else {
			l.Debug().Dur("took", time.Since(started)).Msg("command finished")
			result = domain.Success(text)
		}

		e.router.Route(ctx, result, origin)
	}()
}

func (e *Executor) track() {
	e.wg.Add(1)
	e.inFlight.Add(1)
}

func (e *Executor) untrack() {
	e.inFlight.Add(-1)
	e.wg.Done()
}

// Outstanding returns the number of commands whose result has not been routed yet.
func (e *Executor) Outstanding() int {
	return int(e.inFlight.Load())
}

// Wait blocks until all outstanding commands routed their result or ctx is done.
func (e *Executor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) commandContext(ctx context.Context, command string) (context.Context, context.CancelFunc) {
	timeout := e.timeout
	if t, ok := e.timeouts[command]; ok {
		timeout = t
	}

	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

// invoke calls handler.Run, turning a synchronous panic into a rejected Future.
func invoke(ctx context.Context, handler port.Command, arg string) (f *domain.Future) {
	defer func() {
		if r := recover(); r != nil {
			f = domain.Rejected(fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r))
		}
	}()

	f = handler.Run(ctx, arg)
	if f == nil {
		return domain.Rejected(fmt.Errorf("%w: no result", domain.ErrHandlerPanic))
	}

	return f
}

// FailureMessage turns err into the short text shown to users.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, domain.ErrHandlerPanic):
		return domain.ErrHandlerPanic.Error()
	}

	msg, _, _ := strings.Cut(err.Error(), "\n")
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "failed"
	}

	if utf8.RuneCountInString(msg) > maxFailureLength {
		msg = string([]rune(msg)[:maxFailureLength-1]) + "…"
	}

	return msg
}
