package sim

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/oshokin/order-kiosk/internal/hal"
)

// Pin is an in-memory line usable as input, output and edge source.
type Pin struct {
	level   atomic.Bool
	mu      sync.Mutex
	handler func()
	writes  []bool
}

// NewPin returns a pin resting at the given level.
func NewPin(level bool) *Pin {
	p := new(Pin)
	p.level.Store(level)

	return p
}

// Get returns the current level.
func (p *Pin) Get() bool {
	return p.level.Load()
}

// Set drives the level and records the write.
func (p *Pin) Set(high bool) {
	p.level.Store(high)

	p.mu.Lock()
	p.writes = append(p.writes, high)
	p.mu.Unlock()
}

// OnRising registers the edge handler.
func (p *Pin) OnRising(handler func()) {
	p.mu.Lock()
	p.handler = handler
	p.mu.Unlock()
}

// Drive changes the level from the outside world and fires the rising edge handler.
func (p *Pin) Drive(high bool) {
	was := p.level.Swap(high)

	p.mu.Lock()
	handler := p.handler
	p.mu.Unlock()

	if high && !was && handler != nil {
		handler()
	}
}

// Writes returns every level written with Set.
func (p *Pin) Writes() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]bool(nil), p.writes...)
}

// Pins returns n pins resting low.
func Pins(n int) []*Pin {
	pins := make([]*Pin, n)
	for i := range pins {
		pins[i] = NewPin(false)
	}

	return pins
}

// Outputs converts pins to the hal output interface.
func Outputs(pins []*Pin) []hal.OutputPin {
	out := make([]hal.OutputPin, len(pins))
	for i, p := range pins {
		out[i] = p
	}

	return out
}

// Display records draw calls as text, one entry per call.
type Display struct {
	mu    sync.Mutex
	calls []string
}

// SetColors records a color change.
func (d *Display) SetColors(fg, bg hal.Color) {
	d.record(fmt.Sprintf("colors %04x %04x", uint16(fg), uint16(bg)))
}

// SetPosition records a cursor move.
func (d *Display) SetPosition(x, y int) {
	d.record(fmt.Sprintf("pos %d %d", x, y))
}

// SetFont records a font change.
func (d *Display) SetFont(f hal.Font) {
	d.record(fmt.Sprintf("font %d", f))
}

// Print records printed text.
func (d *Display) Print(text string) {
	d.record("print " + text)
}

// Clear records a full erase.
func (d *Display) Clear() {
	d.record("clear")
}

// Calls returns the recorded calls.
func (d *Display) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.calls...)
}

// Printed returns only the printed strings.
func (d *Display) Printed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var printed []string

	for _, call := range d.calls {
		if text, ok := strings.CutPrefix(call, "print "); ok {
			printed = append(printed, text)
		}
	}

	return printed
}

// Reset forgets the recorded calls.
func (d *Display) Reset() {
	d.mu.Lock()
	d.calls = nil
	d.mu.Unlock()
}

func (d *Display) record(call string) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
}

// Tone is one buzzer setting.
type Tone struct {
	FreqHz uint32
	Duty   uint16
}

// Buzzer records tone changes.
type Buzzer struct {
	mu    sync.Mutex
	tones []Tone
}

// SetTone records the tone.
func (b *Buzzer) SetTone(freqHz uint32, duty uint16) {
	b.mu.Lock()
	b.tones = append(b.tones, Tone{FreqHz: freqHz, Duty: duty})
	b.mu.Unlock()
}

// Tones returns the recorded settings.
func (b *Buzzer) Tones() []Tone {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Tone(nil), b.tones...)
}

// Last returns the most recent setting and whether there was one.
func (b *Buzzer) Last() (Tone, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.tones) == 0 {
		return Tone{}, false
	}

	return b.tones[len(b.tones)-1], true
}

// SegmentBus records the display lines as a logical picture.
type SegmentBus struct {
	mu      sync.Mutex
	enabled [4]bool
	pattern hal.Pattern
	// lit collects, per digit, the last pattern shown while it was selected.
	lit    [4]hal.Pattern
	cycles int
}

// SetDigitEnable records the digit select.
func (s *SegmentBus) SetDigitEnable(index int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.enabled) {
		return
	}

	s.enabled[index] = on
	if on {
		s.lit[index] = s.pattern
		if index == len(s.enabled)-1 {
			s.cycles++
		}
	}
}

// SetSegmentPattern records the segment lines and latches them into selected digits.
func (s *SegmentBus) SetSegmentPattern(p hal.Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pattern = p

	for i, on := range s.enabled {
		if on {
			s.lit[i] = p
		}
	}
}

// Lit returns the pattern last shown on each digit.
func (s *SegmentBus) Lit() [4]hal.Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lit
}

// Dark reports whether no digit is selected and no segment is driven.
func (s *SegmentBus) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enabled == [4]bool{} && s.pattern == hal.Pattern{}
}

// Cycles returns how many times the last digit has been selected.
func (s *SegmentBus) Cycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cycles
}
