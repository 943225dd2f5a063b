package serialbridge

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/hal"
)

// device is the far end of the serial line.
type device struct {
	conn  net.Conn
	lines chan string
}

func newPair(t *testing.T) (*Bridge, *device) {
	t.Helper()

	host, far := net.Pipe()

	d := &device{conn: far, lines: make(chan string, 64)}

	go func() {
		scanner := bufio.NewScanner(far)
		for scanner.Scan() {
			d.lines <- scanner.Text()
		}

		close(d.lines)
	}()

	b := NewBridge(context.Background(), host)

	t.Cleanup(func() {
		_ = b.Close()
		_ = far.Close()
	})

	return b, d
}

func (d *device) next(t *testing.T) string {
	t.Helper()

	select {
	case line := <-d.lines:
		return line
	case <-time.After(time.Second):
		t.Fatal("no line from host")

		return ""
	}
}

func (d *device) report(t *testing.T, pin int, high bool) {
	t.Helper()

	level := 0
	if high {
		level = 1
	}

	_, err := fmt.Fprintf(d.conn, "L %d %d\n", pin, level)
	require.NoError(t, err)
}

func TestBridge_Commands(t *testing.T) {
	t.Parallel()

	b, d := newPair(t)

	out, err := b.Output(3)
	require.NoError(t, err)

	out.Set(true)
	require.Equal(t, "O 3 1", d.next(t))

	out.Set(false)
	require.Equal(t, "O 3 0", d.next(t))

	buzzer, err := b.Buzzer(16)
	require.NoError(t, err)

	buzzer.SetTone(2000, 32768)
	require.Equal(t, "T 16 2000 32768", d.next(t))

	display := b.Display()
	display.SetColors(hal.RGB(0, 0, 0), hal.RGB(255, 255, 0))
	require.Equal(t, "G C 0000 ffe0", d.next(t))

	display.SetPosition(10, 45)
	require.Equal(t, "G P 10 45", d.next(t))

	display.SetFont(hal.FontLarge)
	require.Equal(t, "G F 2", d.next(t))

	display.Print("Total: 7.00\nKM")
	require.Equal(t, "G W Total: 7.00 KM", d.next(t))

	display.Clear()
	require.Equal(t, "G E", d.next(t))

	_, err = b.Output(MaxPins)
	require.ErrorIs(t, err, ErrPinOutOfRange)
}

func TestBridge_InputLevelsAndRisingEdge(t *testing.T) {
	t.Parallel()

	b, d := newPair(t)

	in, err := b.Input(2, PullUp)
	require.NoError(t, err)
	require.Equal(t, "I 2 up", d.next(t))
	require.True(t, in.Get())

	button, err := b.Input(20, PullDown)
	require.NoError(t, err)
	require.Equal(t, "I 20 down", d.next(t))
	require.False(t, button.Get())

	var rises atomic.Int32

	button.OnRising(func() { rises.Add(1) })

	d.report(t, 2, false)
	require.Eventually(t, func() bool { return !in.Get() }, time.Second, time.Millisecond)

	d.report(t, 20, true)
	d.report(t, 20, true)
	d.report(t, 20, false)
	d.report(t, 20, true)

	// Noise is ignored.
	_, err = fmt.Fprintf(d.conn, "hello\nL 999 1\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rises.Load() == 2 }, time.Second, time.Millisecond)
	require.True(t, button.Get())
}

func TestBridge_LineLoss(t *testing.T) {
	t.Parallel()

	b, d := newPair(t)

	require.NoError(t, d.conn.Close())

	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Fatal("reader did not stop")
	}

	require.Error(t, b.Err())
}
