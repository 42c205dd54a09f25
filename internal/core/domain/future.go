package domain

import (
	"context"
	"fmt"
)

// Future is the single completion abstraction every command returns through, whether the command
// finished immediately or is still waiting on a timer or an external lookup. A Future resolves exactly once.
type Future struct {
	done chan struct{}
	text string
	err  error
}

// Resolved returns a Future that already completed with text.
func Resolved(text string) *Future {
	f := &Future{done: make(chan struct{}), text: text}
	close(f.done)

	return f
}

// Rejected returns a Future that already failed with err.
func Rejected(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)

	return f
}

// Async runs fn in its own goroutine and resolves the returned Future with its outcome. A panic in fn
// rejects the Future with ErrHandlerPanic.
func Async(ctx context.Context, fn func(ctx context.Context) (string, error)) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.text = ""
				f.err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			}
		}()

		f.text, f.err = fn(ctx)
	}()

	return f
}

// Done is closed once the Future resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future resolved or ctx is done, whichever comes first.
func (f *Future) Await(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.text, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
