package tui

import (
	"context"
	"sync"
)

// RequestState manages cancellation of the in-flight auth call with thread safety
type RequestState struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// SetCancel stores the cancel function
func (r *RequestState) SetCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = cancel
}

// IsActive returns whether a cancel function is stored
func (r *RequestState) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Cancel cancels the request if active
func (r *RequestState) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Clear removes the cancel function without calling it
func (r *RequestState) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = nil
}

// ResizeState debounces terminal resizes. Every size bumps a sequence
// number; only the latest one is applied once its timer fires.
type ResizeState struct {
	mu      sync.Mutex
	seq     uint64
	applied bool
}

// Next records a new pending size and returns its sequence number
func (r *ResizeState) Next() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// IsLatest reports whether seq is the most recent pending size
func (r *ResizeState) IsLatest(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq == r.seq
}

// MarkApplied records that a size has been applied at least once
func (r *ResizeState) MarkApplied() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = true
}

// HasApplied reports whether any size has been applied
func (r *ResizeState) HasApplied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied
}
