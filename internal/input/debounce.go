package input

import "time"

const (
	// RotaryDebounce is the minimum spacing between accepted rotations.
	RotaryDebounce = 150 * time.Millisecond
	// ButtonDebounce is the minimum spacing between accepted clicks.
	ButtonDebounce = 250 * time.Millisecond
)

// Window enforces a minimum spacing between accepted events.
// The zero value with a positive D accepts the first event.
type Window struct {
	// D is the minimum spacing.
	D time.Duration

	last     time.Time
	accepted bool
}

// Ready reports whether an event at now would be accepted.
func (w *Window) Ready(now time.Time) bool {
	return !w.accepted || now.Sub(w.last) >= w.D
}

// Mark records an accepted event at now.
func (w *Window) Mark(now time.Time) {
	w.last = now
	w.accepted = true
}

// Sample is one reading of the quadrature lines (true = high).
type Sample struct {
	CLK bool
	DT  bool
}

// rest is the detent position of the encoder: both lines pulled high.
var rest = Sample{CLK: true, DT: true}

// Rotary turns quadrature samples into rotation steps.
type Rotary struct {
	window Window
	prev   Sample
}

// NewRotary starts from the initial line levels.
func NewRotary(window time.Duration, initial Sample) *Rotary {
	return &Rotary{
		window: Window{D: window},
		prev:   initial,
	}
}

// Update consumes one sample and returns the step (+1 or -1) when a rotation
// is accepted. A step is accepted only when leaving the detent and only
// after the debounce window since the previous accepted step.
func (r *Rotary) Update(now time.Time, s Sample) (int, bool) {
	if s == r.prev {
		return 0, false
	}

	prev := r.prev
	r.prev = s

	if prev != rest || !r.window.Ready(now) {
		return 0, false
	}

	var step int

	switch s {
	case Sample{CLK: true, DT: false}:
		step = 1
	case Sample{CLK: false, DT: true}:
		step = -1
	default:
		return 0, false
	}

	r.window.Mark(now)

	return step, true
}

// Button turns an active-low button line into clicks.
type Button struct {
	window   Window
	released bool
}

// NewButton returns a button that must be seen released before its first click.
func NewButton(window time.Duration) *Button {
	return &Button{window: Window{D: window}}
}

// Update consumes one reading of the line and reports a click.
// Holding the button never repeats: a new click needs a release first.
func (b *Button) Update(now time.Time, high bool) bool {
	if high {
		b.released = true
		return false
	}

	if !b.released || !b.window.Ready(now) {
		return false
	}

	b.released = false
	b.window.Mark(now)

	return true
}

// Released records the moment the pressed button came back up; the debounce
// window for the next click starts here.
func (b *Button) Released(now time.Time) {
	b.released = true
	b.window.Mark(now)
}
