package input

import (
	"context"
	"time"

	"github.com/oshokin/order-kiosk/internal/hal"
)

// releasePoll is how often a held button is re-read while waiting for release.
const releasePoll = 10 * time.Millisecond

// Kind tells which semantic event a poll produced.
type Kind int

const (
	// None means nothing happened this tick.
	None Kind = iota
	// Rotate carries a +1 or -1 step.
	Rotate
	// Click is a completed button press.
	Click
)

// Event is the debounced result of one poll tick.
type Event struct {
	Kind Kind
	// Step is +1 (clockwise) or -1 for Rotate events.
	Step int
}

// RotateBy returns a rotation event.
func RotateBy(step int) Event {
	return Event{Kind: Rotate, Step: step}
}

// ClickEvent returns a click event.
func ClickEvent() Event {
	return Event{Kind: Click}
}

// Poller samples a rotary encoder with push button and yields at most one
// event per call.
type Poller struct {
	clk, dt, sw hal.InputPin

	rotary *Rotary
	button *Button
}

// NewPoller reads the current encoder levels as the starting point.
func NewPoller(clk, dt, sw hal.InputPin) *Poller {
	return &Poller{
		clk:    clk,
		dt:     dt,
		sw:     sw,
		rotary: NewRotary(RotaryDebounce, Sample{CLK: clk.Get(), DT: dt.Get()}),
		button: NewButton(ButtonDebounce),
	}
}

// Poll samples the lines once. After a click it blocks until the button is
// released or ctx is done; nothing else is processed meanwhile.
func (p *Poller) Poll(ctx context.Context) Event {
	now := time.Now()

	if step, ok := p.rotary.Update(now, Sample{CLK: p.clk.Get(), DT: p.dt.Get()}); ok {
		return RotateBy(step)
	}

	if !p.button.Update(now, p.sw.Get()) {
		return Event{}
	}

	p.waitRelease(ctx)
	p.button.Released(time.Now())

	return ClickEvent()
}

func (p *Poller) waitRelease(ctx context.Context) {
	for !p.sw.Get() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(releasePoll):
		}
	}
}
