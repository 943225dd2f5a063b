package hal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/hal"
	"github.com/oshokin/order-kiosk/internal/hal/sim"
)

// TestRGB checks RGB565 packing against known values.
func TestRGB(t *testing.T) {
	t.Parallel()

	require.Equal(t, hal.Color(0xFFFF), hal.RGB(255, 255, 255))
	require.Equal(t, hal.Color(0x0000), hal.RGB(0, 0, 0))
	require.Equal(t, hal.Color(0xF800), hal.RGB(255, 0, 0))
	require.Equal(t, hal.Color(0x07E0), hal.RGB(0, 255, 0))
	require.Equal(t, hal.Color(0x001F), hal.RGB(0, 0, 255))
	require.Equal(t, hal.Color(0xFFE0), hal.RGB(255, 255, 0))
}

// TestPinSegmentBus_ActiveLow verifies line inversion for common anode displays.
func TestPinSegmentBus_ActiveLow(t *testing.T) {
	t.Parallel()

	digits := sim.Pins(4)
	segments := sim.Pins(8)
	bus := hal.NewPinSegmentBus(sim.Outputs(digits), sim.Outputs(segments), true)

	bus.SetDigitEnable(2, true)
	require.False(t, digits[2].Get())

	bus.SetDigitEnable(2, false)
	require.True(t, digits[2].Get())

	bus.SetSegmentPattern(hal.Pattern{true, false, true, false, false, false, false, true})
	require.False(t, segments[0].Get())
	require.True(t, segments[1].Get())
	require.False(t, segments[7].Get())

	// Out of range is ignored.
	bus.SetDigitEnable(9, true)
}

// TestPinSegmentBus_SkipsUnchangedLines writes a line only when its level changes.
func TestPinSegmentBus_SkipsUnchangedLines(t *testing.T) {
	t.Parallel()

	digits := sim.Pins(4)
	segments := sim.Pins(8)
	bus := hal.NewPinSegmentBus(sim.Outputs(digits), sim.Outputs(segments), false)

	eight := hal.Pattern{true, true, true, true, true, true, true, false}

	bus.SetSegmentPattern(eight)
	bus.SetSegmentPattern(eight)
	bus.SetDigitEnable(0, true)
	bus.SetDigitEnable(0, true)

	// The first write to every line goes out even when the level looks unchanged.
	require.Len(t, segments[7].Writes(), 1)
	require.Len(t, segments[0].Writes(), 1)
	require.Len(t, digits[0].Writes(), 1)

	bus.SetSegmentPattern(hal.Pattern{true})
	require.Len(t, segments[0].Writes(), 1)
	require.Equal(t, []bool{true, false}, segments[1].Writes())
}

// TestPinIndicators switches outputs and ignores bad indexes.
func TestPinIndicators(t *testing.T) {
	t.Parallel()

	pins := sim.Pins(3)
	leds := hal.PinIndicators(sim.Outputs(pins))

	require.Equal(t, 3, leds.Len())

	leds.SetOutput(1, true)
	leds.SetOutput(5, true)
	require.True(t, pins[1].Get())
	require.False(t, pins[0].Get())
}
