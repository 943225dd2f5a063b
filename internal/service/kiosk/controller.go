package kiosk

import (
	"context"
	"time"

	"github.com/oshokin/order-kiosk/internal/input"
	"github.com/oshokin/order-kiosk/internal/logger"
)

// PollInterval is the pause between two samples of the encoder.
const PollInterval = 5 * time.Millisecond

// Publisher sends the finished order.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// EventSource yields debounced input events, at most one per call.
type EventSource interface {
	Poll(ctx context.Context) input.Event
}

// Controller runs the kiosk loop: sample input, advance the machine, carry
// out its effects.
type Controller struct {
	machine   *Machine
	events    EventSource
	renderer  *Renderer
	publisher Publisher
	topic     string
}

// NewController wires the loop together.
func NewController(
	machine *Machine,
	events EventSource,
	renderer *Renderer,
	publisher Publisher,
	topic string,
) *Controller {
	return &Controller{
		machine:   machine,
		events:    events,
		renderer:  renderer,
		publisher: publisher,
		topic:     topic,
	}
}

// Run draws the current screen and polls until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.renderer.Render(c.machine.View())

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Step(ctx)
		}
	}
}

// Step samples the input once and applies the resulting event.
func (c *Controller) Step(ctx context.Context) {
	ev := c.events.Poll(ctx)
	if ev.Kind == input.None {
		return
	}

	from := c.machine.Screen()

	effect, err := c.machine.Handle(ev)
	if err != nil {
		logger.ErrorKV(ctx, "Event handling failed", "screen", from.String(), "error", err)
	}

	if effect.Publish != nil {
		c.publish(ctx, effect.Publish)
	}

	if effect.Redraw {
		c.renderer.Render(c.machine.View())
	}

	if to := c.machine.Screen(); to != from {
		logger.DebugKV(ctx, "Screen changed", "from", from.String(), "to", to.String())
	}
}

// publish sends the order synchronously. A failure is logged and the
// kiosk still shows the order as sent.
func (c *Controller) publish(ctx context.Context, payload []byte) {
	if err := c.publisher.Publish(ctx, c.topic, payload); err != nil {
		logger.ErrorKV(ctx, "Order publish failed", "topic", c.topic, "payload", string(payload), "error", err)

		return
	}

	logger.InfoKV(ctx, "Order published", "topic", c.topic, "payload", string(payload))
}
