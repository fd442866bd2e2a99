package draftflow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrictHandlingTrackerNilReceiver(t *testing.T) {
	var tracker *StrictHandlingTracker
	tracker.AddWarning("ignored")
	tracker.SetConfirmed(true)
	tracker.Reset()
	assert.Nil(t, tracker.Warnings())
	assert.Nil(t, tracker.Pending())
	assert.False(t, tracker.Confirmed())
}

func TestStrictHandlingTrackerLifecycle(t *testing.T) {
	tracker := NewStrictHandlingTracker()
	assert.False(t, tracker.Confirmed())

	tracker.AddWarning("fee exceeds budget")
	tracker.AddWarning("booking date in the past")
	assert.Equal(t, []string{"fee exceeds budget", "booking date in the past"}, tracker.Warnings())

	tracker.SetConfirmed(true)
	assert.True(t, tracker.Confirmed())

	tracker.Reset()
	assert.Empty(t, tracker.Warnings())
	assert.False(t, tracker.Confirmed())
}

func TestStrictHandlingTrackerWarningsCopy(t *testing.T) {
	tracker := NewStrictHandlingTracker()
	tracker.AddWarning("one")
	warnings := tracker.Warnings()
	warnings[0] = "mutated"
	assert.Equal(t, []string{"one"}, tracker.Warnings())
}

func TestStrictHandlingTrackerConcurrent(t *testing.T) {
	tracker := NewStrictHandlingTracker()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.AddWarning("w")
			tracker.SetConfirmed(true)
			_ = tracker.Warnings()
			_ = tracker.Confirmed()
		}()
	}
	wg.Wait()
	assert.Len(t, tracker.Warnings(), 32)
	assert.True(t, tracker.Confirmed())
}
