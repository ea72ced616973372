// Package clock provides the tick clocks the sequencer waits on.
package clock

import (
	"context"
	"errors"
	"fmt"
)

// ErrStopped is returned by Wait once the clock's context is done.
var ErrStopped = errors.New("clock stopped")

// Monotonic is a real-time clock on the system's monotonic time source.
// It keeps an absolute target in nanoseconds; Wait moves the target forward and sleeps until
// it is reached, returning at once when the target is already in the past.
type Monotonic struct {
	ctx    context.Context
	target int64
}

// NewMonotonic returns a clock whose Wait fails with ErrStopped after ctx is done.
// Reset must be called before the first Wait.
func NewMonotonic(ctx context.Context) *Monotonic {
	return &Monotonic{ctx: ctx}
}

// Reset sets the target to the current time.
func (m *Monotonic) Reset() error {
	now, err := monotonicNow()
	if err != nil {
		return fmt.Errorf("reading monotonic clock: %w", err)
	}
	m.target = now
	return nil
}

// Wait advances the target by micros and blocks until it is reached.
func (m *Monotonic) Wait(micros uint64) error {
	if err := m.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStopped, err)
	}
	m.target += int64(micros) * 1000
	if err := sleepUntil(m.target); err != nil {
		return fmt.Errorf("sleeping until deadline: %w", err)
	}
	return nil
}

// Target returns the current absolute deadline in nanoseconds on the monotonic clock.
func (m *Monotonic) Target() int64 {
	return m.target
}
