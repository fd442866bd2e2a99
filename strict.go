package draftflow

import (
	"sync"
)

// StrictHandlingTracker accumulates the state of an in-flight strict-handling
// (HTTP 412) exchange: warning messages surfaced by the backend, queued
// operations awaiting a resubmit decision and whether the user confirmed the
// warning dialog.
//
// One tracker covers one logical transaction attempt. It is created by the
// caller, threaded through the orchestrator options and discarded once the
// dialog is resolved. All methods are safe for concurrent use.
type StrictHandlingTracker struct {
	mu        sync.Mutex
	warnings  []string
	pending   []PendingOperation
	confirmed bool
}

// NewStrictHandlingTracker creates an empty tracker.
func NewStrictHandlingTracker() *StrictHandlingTracker {
	return &StrictHandlingTracker{}
}

// AddWarning records a strict-handling warning message.
func (t *StrictHandlingTracker) AddWarning(message string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warnings = append(t.warnings, message)
}

// Warnings returns a copy of the recorded warning messages.
func (t *StrictHandlingTracker) Warnings() []string {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// AddPending records an operation waiting on the strict-handling decision.
func (t *StrictHandlingTracker) AddPending(p PendingOperation) {
	if t == nil || p == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, p)
}

// Pending returns a copy of the operations waiting on the decision.
func (t *StrictHandlingTracker) Pending() []PendingOperation {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PendingOperation, len(t.pending))
	copy(out, t.pending)
	return out
}

// SetConfirmed records the outcome of the strict-handling dialog.
func (t *StrictHandlingTracker) SetConfirmed(confirmed bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirmed = confirmed
}

// Confirmed reports whether the user confirmed the strict-handling dialog.
func (t *StrictHandlingTracker) Confirmed() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.confirmed
}

// Reset clears the tracker for reuse in a fresh transaction attempt.
func (t *StrictHandlingTracker) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warnings = t.warnings[:0]
	t.pending = t.pending[:0]
	t.confirmed = false
}
