package kiosk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/hal/sim"
	"github.com/oshokin/order-kiosk/internal/input"
	"github.com/oshokin/order-kiosk/internal/transport"
)

// scriptedEvents replays a fixed event list, then reports nothing.
type scriptedEvents struct {
	events []input.Event
}

func (s *scriptedEvents) Poll(context.Context) input.Event {
	if len(s.events) == 0 {
		return input.Event{}
	}

	ev := s.events[0]
	s.events = s.events[1:]

	return ev
}

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(context.Context, string, []byte) error {
	p.calls++

	return errors.New("broker unreachable")
}

func submitPizzaAndSok() []input.Event {
	return []input.Event{
		click,        // welcome -> menu
		click, click, // add Pizza
		cw, cw,       // Sok
		click, click, // add Sok
		cw, cw,       // finish
		click,        // confirm submit
		click,        // yes
	}
}

func TestController_PublishesOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	broker := transport.NewBroker()

	sub, err := broker.DialSubscriber(ctx, "orders")
	require.NoError(t, err)

	display := new(sim.Display)
	events := &scriptedEvents{events: submitPizzaAndSok()}
	c := NewController(newTestMachine(t), events, NewRenderer(display, "KM"), transport.NewRedialingPublisher(broker), "orders")

	for range len(events.events) + 3 {
		c.Step(ctx)
	}

	payload, ok := sub.Poll()
	require.True(t, ok)
	require.Equal(t, "Pizza, Sok", string(payload))

	require.Equal(t, Sent, c.machine.Screen())
	require.Contains(t, display.Printed(), "Total: 7.00 KM")
}

func TestController_PublishFailureStillShowsSent(t *testing.T) {
	t.Parallel()

	publisher := new(failingPublisher)
	display := new(sim.Display)
	events := &scriptedEvents{events: submitPizzaAndSok()}
	c := NewController(newTestMachine(t), events, NewRenderer(display, "KM"), publisher, "orders")

	for range len(events.events) {
		c.Step(context.Background())
	}

	require.Equal(t, 1, publisher.calls)
	require.Equal(t, Sent, c.machine.Screen())
	require.Contains(t, display.Printed(), "Order sent!")
}

func TestController_RunDrawsWelcomeAndStops(t *testing.T) {
	t.Parallel()

	display := new(sim.Display)
	c := NewController(newTestMachine(t), new(scriptedEvents), NewRenderer(display, "KM"), new(failingPublisher), "orders")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.Run(ctx))
	require.Equal(t, []string{"Welcome!"}, display.Printed())
}
