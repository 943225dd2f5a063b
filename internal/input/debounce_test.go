package input

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/hal/sim"
)

var (
	cw    = Sample{CLK: true, DT: false}
	ccw   = Sample{CLK: false, DT: true}
	both  = Sample{CLK: false, DT: false}
	epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
)

func ms(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Millisecond)
}

func allSeen(r *Rotary, at int, samples ...Sample) []int {
	var steps []int

	for _, s := range samples {
		if step, ok := r.Update(ms(at), s); ok {
			steps = append(steps, step)
		}
	}

	return steps
}

// TestWindow accepts the first event and enforces spacing afterwards.
func TestWindow(t *testing.T) {
	t.Parallel()

	w := Window{D: 100 * time.Millisecond}
	require.True(t, w.Ready(ms(0)))

	w.Mark(ms(0))
	require.False(t, w.Ready(ms(99)))
	require.True(t, w.Ready(ms(100)))
}

// TestRotary_Directions maps detent exits to steps.
func TestRotary_Directions(t *testing.T) {
	t.Parallel()

	r := NewRotary(RotaryDebounce, rest)

	step, ok := r.Update(ms(0), cw)
	require.True(t, ok)
	require.Equal(t, 1, step)

	// Full quadrature cycle back to rest yields nothing more.
	require.Empty(t, allSeen(r, 10, both, ccw, rest))

	step, ok = r.Update(ms(200), ccw)
	require.True(t, ok)
	require.Equal(t, -1, step)
}

// TestRotary_ValidTransitionsSpacedApart counts one step per detent exit when spaced by the window.
func TestRotary_ValidTransitionsSpacedApart(t *testing.T) {
	t.Parallel()

	r := NewRotary(RotaryDebounce, rest)
	at := 0
	steps := 0

	for i := range 20 {
		exit := cw
		if i%3 == 0 {
			exit = ccw
		}

		if _, ok := r.Update(ms(at), exit); ok {
			steps++
		}

		// Return to the detent well inside the window; not an event.
		_, ok := r.Update(ms(at+20), rest)
		require.False(t, ok)

		at += 150
	}

	require.Equal(t, 20, steps)
}

// TestRotary_CoalescesFastTransitions drops detent exits closer than the window.
func TestRotary_CoalescesFastTransitions(t *testing.T) {
	t.Parallel()

	r := NewRotary(RotaryDebounce, rest)

	_, ok := r.Update(ms(0), cw)
	require.True(t, ok)

	// Contact bounce and a quick second detent inside 150 ms.
	for _, at := range []int{5, 10, 40, 80, 149} {
		_, ok = r.Update(ms(at), rest)
		require.False(t, ok)

		_, ok = r.Update(ms(at), cw)
		require.False(t, ok)
	}

	// Non-detent transitions never count and never restart the window.
	r = NewRotary(RotaryDebounce, both)
	_, ok = r.Update(ms(0), cw)
	require.False(t, ok)

	_, ok = r.Update(ms(1), rest)
	require.False(t, ok)

	_, ok = r.Update(ms(2), ccw)
	require.True(t, ok)
}

// TestRotary_NoEventWithoutTransition holds a level without repeats.
func TestRotary_NoEventWithoutTransition(t *testing.T) {
	t.Parallel()

	r := NewRotary(RotaryDebounce, rest)
	require.Empty(t, allSeen(r, 1000, rest, rest, rest))

	_, ok := r.Update(ms(2000), cw)
	require.True(t, ok)

	for at := 2200; at < 5000; at += 200 {
		_, ok = r.Update(ms(at), cw)
		require.False(t, ok)
	}
}

// TestButton requires a release between clicks and honours the window.
func TestButton(t *testing.T) {
	t.Parallel()

	b := NewButton(ButtonDebounce)

	// Held at start: no click until released.
	require.False(t, b.Update(ms(0), false))
	require.False(t, b.Update(ms(10), true))
	require.True(t, b.Update(ms(20), false))

	// Still held: no repeat.
	require.False(t, b.Update(ms(500), false))

	b.Released(ms(600))

	// Inside the window after release.
	require.False(t, b.Update(ms(700), false))
	require.True(t, b.Update(ms(850), false))
}

// TestPoller_ClickWaitsForRelease checks the blocking release wait and one event per tick.
func TestPoller_ClickWaitsForRelease(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		clk, dt, sw := sim.NewPin(true), sim.NewPin(true), sim.NewPin(true)
		p := NewPoller(clk, dt, sw)
		ctx := context.Background()

		require.Equal(t, Event{}, p.Poll(ctx))

		sw.Drive(false)

		go func() {
			time.Sleep(300 * time.Millisecond)
			sw.Drive(true)
		}()

		start := time.Now()
		require.Equal(t, ClickEvent(), p.Poll(ctx))
		require.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)

		dt.Drive(false)
		require.Equal(t, RotateBy(1), p.Poll(ctx))
	})
}

// TestPoller_ReleaseWaitStopsOnCancel returns when the context ends mid-press.
func TestPoller_ReleaseWaitStopsOnCancel(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		clk, dt, sw := sim.NewPin(true), sim.NewPin(true), sim.NewPin(true)
		p := NewPoller(clk, dt, sw)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		p.Poll(ctx)
		sw.Drive(false)

		require.Equal(t, ClickEvent(), p.Poll(ctx))
		require.Error(t, ctx.Err())
	})
}
