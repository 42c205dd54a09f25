package service

import (
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Tracker bounds the number of outstanding commands.
type Tracker interface {
	// Acquire reserves a slot for nick and reports whether one was available.
	Acquire(nick string) bool
	Release(nick string)
}

// PendingTracker caps outstanding commands globally and per nick.
type PendingTracker struct {
	global  *semaphore.Weighted
	perNick int
	pending map[string]int
	mutex   *sync.Mutex
}

// NewPendingTracker returns a tracker allowing maxPending outstanding commands overall and maxPerNick per nick.
// A limit <= 0 disables that limit.
func NewPendingTracker(maxPending, maxPerNick int) *PendingTracker {
	t := &PendingTracker{
		perNick: maxPerNick,
		pending: make(map[string]int),
		mutex:   &sync.Mutex{},
	}

	if maxPending > 0 {
		t.global = semaphore.NewWeighted(int64(maxPending))
	}

	return t
}

func (t *PendingTracker) Acquire(nick string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.perNick > 0 && t.pending[nick] >= t.perNick {
		log.Debug().Str("nick", nick).Int("pending", t.pending[nick]).Msg("per nick limit reached")
		return false
	}

	if t.global != nil && !t.global.TryAcquire(1) {
		log.Debug().Str("nick", nick).Msg("global pending limit reached")
		return false
	}

	t.pending[nick]++

	return true
}

func (t *PendingTracker) Release(nick string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.pending[nick] == 0 {
		return
	}

	t.pending[nick]--
	if t.pending[nick] == 0 {
		delete(t.pending, nick)
	}

	if t.global != nil {
		t.global.Release(1)
	}
}

// Pending returns the number of outstanding commands of nick.
func (t *PendingTracker) Pending(nick string) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.pending[nick]
}
