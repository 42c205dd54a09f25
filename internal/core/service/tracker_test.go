package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingTracker_PerNick(t *testing.T) {
	tracker := NewPendingTracker(0, 2)

	assert.True(t, tracker.Acquire("alice"))
	assert.True(t, tracker.Acquire("alice"))
	assert.False(t, tracker.Acquire("alice"))
	assert.True(t, tracker.Acquire("bob"))
	assert.Equal(t, 2, tracker.Pending("alice"))

	tracker.Release("alice")
	assert.Equal(t, 1, tracker.Pending("alice"))
	assert.True(t, tracker.Acquire("alice"))
}

func TestPendingTracker_Global(t *testing.T) {
	tracker := NewPendingTracker(2, 0)

	assert.True(t, tracker.Acquire("alice"))
	assert.True(t, tracker.Acquire("bob"))
	assert.False(t, tracker.Acquire("carol"))

	tracker.Release("bob")
	assert.True(t, tracker.Acquire("carol"))
}

func TestPendingTracker_ReleaseUnknown(t *testing.T) {
	tracker := NewPendingTracker(1, 1)

	tracker.Release("nobody")
	assert.True(t, tracker.Acquire("alice"))
	assert.False(t, tracker.Acquire("bob"))
}

func TestPendingTracker_Unlimited(t *testing.T) {
	tracker := NewPendingTracker(0, 0)

	for range 100 {
		assert.True(t, tracker.Acquire("alice"))
	}
	assert.Equal(t, 100, tracker.Pending("alice"))
}
