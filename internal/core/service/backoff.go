package service

import "time"

// Backoff tracks the delay before the next reconnect attempt.
type Backoff struct {
	initial    time.Duration
	current    time.Duration
	max        time.Duration
	multiplier float64
}

// NewBackoff returns a Backoff starting at initial and growing by multiplier up to max. A multiplier below 1
// is treated as 1 and max is raised to initial if it is smaller.
func NewBackoff(initial, max time.Duration, multiplier float64) *Backoff {
	if multiplier < 1 {
		multiplier = 1
	}

	if max < initial {
		max = initial
	}

	return &Backoff{initial: initial, current: initial, max: max, multiplier: multiplier}
}

// Current returns the delay the next reconnect will wait for.
func (b *Backoff) Current() time.Duration {
	return b.current
}

// Next returns the current delay and advances it for the attempt after.
func (b *Backoff) Next() time.Duration {
	d := b.current

	next := time.Duration(float64(b.current) * b.multiplier)
	if next > b.max || next < b.current {
		next = b.max
	}

	b.current = next

	return d
}

func (b *Backoff) Reset() {
	b.current = b.initial
}
