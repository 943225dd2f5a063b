package serialbridge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tarm/serial"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/hal"
	"github.com/oshokin/order-kiosk/internal/logger"
)

// MaxPins is the number of addressable bridge pins.
const MaxPins = 64

// Pull selects the input bias resistor.
type Pull string

const (
	// PullUp biases the line high; buttons and encoders pull it low.
	PullUp Pull = "up"
	// PullDown biases the line low; the line is driven high when active.
	PullDown Pull = "down"
)

var (
	// ErrPinOutOfRange is returned for pin numbers the bridge does not have.
	ErrPinOutOfRange = errors.New("pin out of range")
	// errSerialPortRequired is returned when no device path is configured.
	errSerialPortRequired = errors.New("serial port must be provided")
)

// Bridge is one serial connection to the pin bridge.
type Bridge struct {
	ctx context.Context //nolint:containedctx // The reader goroutine and pin writes log through it.
	rw  io.ReadWriteCloser

	writeMu sync.Mutex

	levels [MaxPins]atomic.Bool

	handlerMu sync.RWMutex
	handlers  map[int]func()

	done    chan struct{}
	readErr error
	closed  atomic.Bool
}

// Open connects to the bridge on the configured serial port.
func Open(ctx context.Context, cfg config.Hardware) (*Bridge, error) {
	if cfg.SerialPort == "" {
		return nil, errSerialPortRequired
	}

	port, err := serial.OpenPort(&serial.Config{Name: cfg.SerialPort, Baud: cfg.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.SerialPort, err)
	}

	logger.InfoKV(ctx, "Pin bridge connected", "port", cfg.SerialPort, "baud", cfg.Baud)

	return NewBridge(ctx, port), nil
}

// NewBridge starts talking the bridge protocol over rw.
func NewBridge(ctx context.Context, rw io.ReadWriteCloser) *Bridge {
	b := &Bridge{
		ctx:      ctx,
		rw:       rw,
		handlers: make(map[int]func()),
		done:     make(chan struct{}),
	}

	go b.readLoop()

	return b
}

// Done is closed when the line is gone.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Err returns the reason the reader stopped, once Done is closed.
func (b *Bridge) Err() error {
	select {
	case <-b.done:
		return b.readErr
	default:
		return nil
	}
}

// Close closes the serial line and waits for the reader to stop.
func (b *Bridge) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := b.rw.Close()
	<-b.done

	return err
}

// Input configures pin as an input and returns it. Until the bridge reports
// a level the pin reads as its bias level.
func (b *Bridge) Input(pin int, pull Pull) (*InputPin, error) {
	if err := checkPin(pin); err != nil {
		return nil, err
	}

	b.levels[pin].Store(pull == PullUp)

	if err := b.send("I %d %s", pin, pull); err != nil {
		return nil, err
	}

	return &InputPin{bridge: b, pin: pin}, nil
}

// Output returns pin as an output.
func (b *Bridge) Output(pin int) (*OutputPin, error) {
	if err := checkPin(pin); err != nil {
		return nil, err
	}

	return &OutputPin{bridge: b, pin: pin}, nil
}

// Outputs returns the listed pins as outputs.
func (b *Bridge) Outputs(pins []int) ([]hal.OutputPin, error) {
	outputs := make([]hal.OutputPin, 0, len(pins))

	for _, pin := range pins {
		out, err := b.Output(pin)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, out)
	}

	return outputs, nil
}

// Buzzer returns the PWM tone generator on pin.
func (b *Bridge) Buzzer(pin int) (*Buzzer, error) {
	if err := checkPin(pin); err != nil {
		return nil, err
	}

	return &Buzzer{bridge: b, pin: pin}, nil
}

// Display returns the bridge's text display.
func (b *Bridge) Display() *Display {
	return &Display{bridge: b}
}

func checkPin(pin int) error {
	if pin < 0 || pin >= MaxPins {
		return fmt.Errorf("%w: %d", ErrPinOutOfRange, pin)
	}

	return nil
}

// send writes one command line.
func (b *Bridge) send(format string, args ...any) error {
	line := fmt.Sprintf(format, args...) + "\n"

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if _, err := io.WriteString(b.rw, line); err != nil {
		return fmt.Errorf("write to pin bridge: %w", err)
	}

	return nil
}

// sendOrLog is used by the hal methods, which have no error return.
func (b *Bridge) sendOrLog(format string, args ...any) {
	if b.closed.Load() {
		return
	}

	if err := b.send(format, args...); err != nil {
		logger.WarnKV(b.ctx, "Pin bridge write failed", "error", err)
	}
}

func (b *Bridge) readLoop() {
	defer close(b.done)

	scanner := bufio.NewScanner(b.rw)

	for scanner.Scan() {
		b.handleLine(scanner.Text())
	}

	b.readErr = scanner.Err()
	if b.readErr == nil && !b.closed.Load() {
		b.readErr = io.ErrUnexpectedEOF
	}

	if b.readErr != nil && !b.closed.Load() {
		logger.ErrorKV(b.ctx, "Pin bridge line lost", "error", b.readErr)
	}
}

func (b *Bridge) handleLine(line string) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "L" {
		logger.DebugKV(b.ctx, "Ignoring pin bridge line", "line", line)

		return
	}

	pin, err := strconv.Atoi(fields[1])
	if err != nil || checkPin(pin) != nil {
		logger.DebugKV(b.ctx, "Ignoring level report for unknown pin", "line", line)

		return
	}

	high := fields[2] == "1"

	was := b.levels[pin].Swap(high)
	if !high || was {
		return
	}

	b.handlerMu.RLock()
	handler := b.handlers[pin]
	b.handlerMu.RUnlock()

	if handler != nil {
		handler()
	}
}

// InputPin is a bridge input. Levels are cached from the bridge's reports.
type InputPin struct {
	bridge *Bridge
	pin    int
}

// Get returns the last reported level.
func (p *InputPin) Get() bool {
	return p.bridge.levels[p.pin].Load()
}

// OnRising registers handler for low-to-high transitions. It runs on the
// reader goroutine and must return quickly.
func (p *InputPin) OnRising(handler func()) {
	p.bridge.handlerMu.Lock()
	p.bridge.handlers[p.pin] = handler
	p.bridge.handlerMu.Unlock()
}

// OutputPin is a bridge output.
type OutputPin struct {
	bridge *Bridge
	pin    int
}

// Set drives the line.
func (p *OutputPin) Set(high bool) {
	level := 0
	if high {
		level = 1
	}

	p.bridge.sendOrLog("O %d %d", p.pin, level)
}

// Buzzer is a PWM output on the bridge.
type Buzzer struct {
	bridge *Bridge
	pin    int
}

// SetTone sets the frequency and duty cycle; zero duty is silence.
func (z *Buzzer) SetTone(freqHz uint32, duty uint16) {
	z.bridge.sendOrLog("T %d %d %d", z.pin, freqHz, duty)
}

// Display draws text on the bridge's screen.
type Display struct {
	bridge *Bridge
}

// SetColors sets foreground and background.
func (d *Display) SetColors(fg, bg hal.Color) {
	d.bridge.sendOrLog("G C %04x %04x", uint16(fg), uint16(bg))
}

// SetPosition moves the text cursor.
func (d *Display) SetPosition(x, y int) {
	d.bridge.sendOrLog("G P %d %d", x, y)
}

// SetFont selects the font.
func (d *Display) SetFont(f hal.Font) {
	d.bridge.sendOrLog("G F %d", f)
}

// Print draws text at the cursor. Line breaks are not part of the protocol.
func (d *Display) Print(text string) {
	d.bridge.sendOrLog("G W %s", strings.NewReplacer("\r", " ", "\n", " ").Replace(text))
}

// Clear erases the screen with the background color.
func (d *Display) Clear() {
	d.bridge.sendOrLog("G E")
}

var (
	_ hal.EdgePin   = (*InputPin)(nil)
	_ hal.OutputPin = (*OutputPin)(nil)
	_ hal.Buzzer    = (*Buzzer)(nil)
	_ hal.Display   = (*Display)(nil)
)
