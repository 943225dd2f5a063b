package hal

// InputPin is a digital input line. Get reports the electrical level (true = high).
type InputPin interface {
	Get() bool
}

// OutputPin is a digital output line.
type OutputPin interface {
	Set(high bool)
}

// EdgePin is an input line able to call a handler on a rising edge.
// The handler runs in interrupt context: it must not block or perform I/O.
type EdgePin interface {
	InputPin
	OnRising(handler func())
}

// Buzzer is a PWM-driven tone generator. A zero duty cycle silences it.
type Buzzer interface {
	SetTone(freqHz uint32, duty uint16)
}

// Pattern holds the logical state of the A..G and DP segments (true = lit).
type Pattern [8]bool

// SegmentBus drives a multiplexed 7-segment display: one shared segment bus
// and one enable line per digit.
type SegmentBus interface {
	SetDigitEnable(index int, on bool)
	SetSegmentPattern(p Pattern)
}

// Indicators is a bank of on/off outputs such as LEDs.
type Indicators interface {
	SetOutput(index int, on bool)
	Len() int
}

// Color is an RGB565 display color.
type Color uint16

// RGB packs 8-bit channels into an RGB565 color.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// Font selects one of the three raster fonts of the kiosk screen.
type Font int

const (
	// FontSmall is the 14 px font.
	FontSmall Font = iota
	// FontMedium is the 24 px font used by most screens.
	FontMedium
	// FontLarge is the 32 px font of the welcome screen.
	FontLarge
)

// Display is a stateless text drawing surface. The caller never reads back
// display state, so every screen is drawn in full.
type Display interface {
	SetColors(fg, bg Color)
	SetPosition(x, y int)
	SetFont(f Font)
	Print(text string)
	Clear()
}

// PinSegmentBus implements SegmentBus on plain output pins. It remembers
// the level of every line and skips writes that would not change it, so a
// slow pin transport only carries real transitions. Not safe for concurrent use.
type PinSegmentBus struct {
	digits    []latch
	segments  []latch
	activeLow bool
}

// latch is an output line with its last written level.
type latch struct {
	pin   OutputPin
	known bool
	high  bool
}

func (l *latch) set(high bool) {
	if l.known && l.high == high {
		return
	}

	l.pin.Set(high)
	l.known, l.high = true, high
}

func latches(pins []OutputPin) []latch {
	out := make([]latch, len(pins))
	for i, pin := range pins {
		out[i].pin = pin
	}

	return out
}

// NewPinSegmentBus wires digit and segment lines. With activeLow a line is
// pulled low to light a segment or select a digit (common anode displays).
func NewPinSegmentBus(digits, segments []OutputPin, activeLow bool) *PinSegmentBus {
	return &PinSegmentBus{
		digits:    latches(digits),
		segments:  latches(segments),
		activeLow: activeLow,
	}
}

// SetDigitEnable selects or releases one digit.
func (b *PinSegmentBus) SetDigitEnable(index int, on bool) {
	if index < 0 || index >= len(b.digits) {
		return
	}

	b.digits[index].set(on != b.activeLow)
}

// SetSegmentPattern drives the segment lines that differ from p.
func (b *PinSegmentBus) SetSegmentPattern(p Pattern) {
	for i := range b.segments {
		if i >= len(p) {
			break
		}

		b.segments[i].set(p[i] != b.activeLow)
	}
}

// PinIndicators implements Indicators on plain output pins.
type PinIndicators []OutputPin

// SetOutput switches one indicator; out-of-range indexes are ignored.
func (p PinIndicators) SetOutput(index int, on bool) {
	if index < 0 || index >= len(p) {
		return
	}

	p[index].Set(on)
}

// Len returns the number of indicators.
func (p PinIndicators) Len() int {
	return len(p)
}
