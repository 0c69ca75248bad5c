// Package slot provides the process-wide execution slot: a binary lock with
// bounded try-acquire, so at most one scenario runs at any instant.
package slot

import (
	"context"
	"errors"
	"time"
)

// ErrBusy is returned when the slot could not be acquired within the timeout.
var ErrBusy = errors.New("another scenario is already running")

// Slot is a binary lock. The zero value is not usable; call New.
type Slot struct {
	ch chan struct{}
}

// New returns a free slot.
func New() *Slot {
	return &Slot{ch: make(chan struct{}, 1)}
}

// Acquire takes the slot, waiting at most timeout. A non-positive timeout
// only succeeds if the slot is free right now.
func (s *Slot) Acquire(ctx context.Context, timeout time.Duration) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	default:
	}
	if timeout <= 0 {
		return ErrBusy
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-t.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire is Acquire reporting only success.
func (s *Slot) TryAcquire(ctx context.Context, timeout time.Duration) bool {
	return s.Acquire(ctx, timeout) == nil
}

// Release frees the slot. It reports false if the slot was not held.
func (s *Slot) Release() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Held reports whether the slot is currently taken.
func (s *Slot) Held() bool {
	return len(s.ch) == 1
}
