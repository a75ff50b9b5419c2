// Package schedule owns the one-shot timers the scanner arms between
// transitions. Production code runs on Real; tests and simulated runs use
// Manual to step time explicitly.
package schedule

import "time"

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents the callback from firing. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Handle
	Now() time.Time
}

// Real schedules callbacks on the runtime timer wheel.
type Real struct{}

// AfterFunc implements Scheduler.
func (Real) AfterFunc(d time.Duration, fn func()) Handle {
	return time.AfterFunc(d, fn)
}

// Now implements Scheduler.
func (Real) Now() time.Time { return time.Now() }
