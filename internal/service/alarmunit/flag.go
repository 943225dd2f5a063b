package alarmunit

import "sync/atomic"

// Flag is the cancellation request shared between the interrupt handler and
// the scheduler loop.
type Flag struct {
	raised atomic.Bool
}

// Raise requests cancellation. Safe to call from an interrupt handler.
func (f *Flag) Raise() {
	f.raised.Store(true)
}

// Raised reports whether cancellation was requested.
func (f *Flag) Raised() bool {
	return f.raised.Load()
}

// Reset clears the request.
func (f *Flag) Reset() {
	f.raised.Store(false)
}
