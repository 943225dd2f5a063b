package alarmunit

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/hal"
	"github.com/oshokin/order-kiosk/internal/hal/sim"
)

func levels(pins []*sim.Pin) []bool {
	out := make([]bool, len(pins))
	for i, p := range pins {
		out[i] = p.Get()
	}

	return out
}

func TestAlerter_PhasesAndDismissal(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		leds := sim.Pins(8)
		buzzer := new(sim.Buzzer)
		a := NewAlerter(hal.PinIndicators(sim.Outputs(leds)), buzzer)
		flag := new(Flag)

		var phases atomic.Int32

		done := make(chan struct{})

		go func() {
			a.Run(context.Background(), flag, func() { phases.Add(1) })
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		synctest.Wait()

		tone, _ := buzzer.Last()
		require.Equal(t, sim.Tone{FreqHz: ToneHz, Duty: ToneDuty}, tone)
		require.Equal(t, []bool{true, false, true, false, true, false, true, false}, levels(leds))

		time.Sleep(AlertPhase)
		synctest.Wait()

		tone, _ = buzzer.Last()
		require.Zero(t, tone.Duty)
		require.Equal(t, []bool{false, true, false, true, false, true, false, true}, levels(leds))
		require.Equal(t, int32(2), phases.Load())

		flag.Raise()
		time.Sleep(CancelPoll)
		synctest.Wait()

		select {
		case <-done:
		default:
			t.Fatal("alert still running one poll after dismissal")
		}

		tone, _ = buzzer.Last()
		require.Zero(t, tone.Duty)
		require.Equal(t, make([]bool, 8), levels(leds))
		require.True(t, flag.Raised(), "the caller owns the reset")
	})
}

func TestAlerter_StopsOnContext(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		leds := sim.Pins(8)
		buzzer := new(sim.Buzzer)
		a := NewAlerter(hal.PinIndicators(sim.Outputs(leds)), buzzer)

		ctx, cancel := context.WithTimeout(context.Background(), 1300*time.Millisecond)
		defer cancel()

		a.Run(ctx, new(Flag), nil)

		require.Equal(t, make([]bool, 8), levels(leds))

		tone, _ := buzzer.Last()
		require.Zero(t, tone.Duty)
	})
}
