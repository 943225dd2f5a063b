package alarmunit

import (
	"fmt"
	"time"

	"github.com/oshokin/order-kiosk/internal/hal"
)

const (
	// DigitCount is the number of digits on the display.
	DigitCount = 4
	// DigitDwell is how long each digit stays lit in one refresh cycle.
	DigitDwell = 3 * time.Millisecond

	maxClockSeconds = 99*60 + 59
)

// glyphs maps characters to lit segments A, B, C, D, E, F, G, DP.
var glyphs = map[byte]hal.Pattern{
	'0': {true, true, true, true, true, true, false, false},
	'1': {false, true, true, false, false, false, false, false},
	'2': {true, true, false, true, true, false, true, false},
	'3': {true, true, true, true, false, false, true, false},
	'4': {false, true, true, false, false, true, true, false},
	'5': {true, false, true, true, false, true, true, false},
	'6': {true, false, true, true, true, true, true, false},
	'7': {true, true, true, false, false, false, false, false},
	'8': {true, true, true, true, true, true, true, false},
	'9': {true, true, true, true, false, true, true, false},
	' ': {},
}

// Glyph returns the segments for c; unknown characters are blank.
func Glyph(c byte) hal.Pattern {
	return glyphs[c]
}

// FormatClock renders seconds as the four mmss digits, saturating at 99:59.
func FormatClock(seconds int) string {
	seconds = min(max(seconds, 0), maxClockSeconds)

	return fmt.Sprintf("%02d%02d", seconds/60, seconds%60)
}

// Multiplexer lights one digit at a time fast enough to look steady.
type Multiplexer struct {
	bus hal.SegmentBus
}

// NewMultiplexer drives bus.
func NewMultiplexer(bus hal.SegmentBus) *Multiplexer {
	return &Multiplexer{bus: bus}
}

// Show runs one refresh cycle of text, padded or cut to four characters,
// and leaves the display dark. Only the previously selected digit is
// released between positions.
func (m *Multiplexer) Show(text string) {
	for pos := range DigitCount {
		c := byte(' ')
		if pos < len(text) {
			c = text[pos]
		}

		if pos > 0 {
			m.bus.SetDigitEnable(pos-1, false)
		}

		m.bus.SetSegmentPattern(Glyph(c))
		m.bus.SetDigitEnable(pos, true)

		time.Sleep(DigitDwell)
	}

	m.bus.SetDigitEnable(DigitCount-1, false)
	m.bus.SetSegmentPattern(hal.Pattern{})
}

// Blank releases every digit and segment.
func (m *Multiplexer) Blank() {
	for pos := range DigitCount {
		m.bus.SetDigitEnable(pos, false)
	}

	m.bus.SetSegmentPattern(hal.Pattern{})
}
