package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/oshokin/order-kiosk/internal/config"
)

// NATSDialer connects to a NATS server with core (at-most-once) delivery.
type NATSDialer struct {
	// URL is the server address, e.g. nats://127.0.0.1:4222.
	URL string
	// Name identifies the connection on the server.
	Name string
	// Timeout bounds connect and publish flushes.
	Timeout time.Duration
}

func (d *NATSDialer) timeout() time.Duration {
	if d.Timeout <= 0 {
		return config.DefaultTimeout
	}

	return d.Timeout
}

func (d *NATSDialer) connect(ctx context.Context) (*nats.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Reconnection is owned by the redialing wrappers, not the client library.
	conn, err := nats.Connect(d.URL,
		nats.Name(d.Name),
		nats.Timeout(d.timeout()),
		nats.NoReconnect(),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", d.URL, err)
	}

	return conn, nil
}

// DialPublisher connects a publisher.
func (d *NATSDialer) DialPublisher(ctx context.Context) (Publisher, error) {
	conn, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	return &natsPublisher{conn: conn, timeout: d.timeout()}, nil
}

// DialSubscriber connects a subscriber for topic.
func (d *NATSDialer) DialSubscriber(ctx context.Context, topic string) (Subscriber, error) {
	conn, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	messages := make(chan *nats.Msg, subscriberBuffer)

	sub, err := conn.ChanSubscribe(topic, messages)
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	return &natsSubscriber{conn: conn, sub: sub, messages: messages}, nil
}

type natsPublisher struct {
	conn    *nats.Conn
	timeout time.Duration
}

// Publish waits for the server to acknowledge the flush so the caller
// learns about a dead connection on this publish, not the next one.
func (p *natsPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if p.conn.IsClosed() {
		return ErrDisconnected
	}

	if err := p.conn.Publish(topic, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("flush to %s: %w", topic, err)
	}

	return nil
}

func (p *natsPublisher) Close() {
	p.conn.Close()
}

type natsSubscriber struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	messages chan *nats.Msg
}

func (s *natsSubscriber) Poll() ([]byte, bool) {
	select {
	case msg := <-s.messages:
		return msg.Data, true
	default:
		return nil, false
	}
}

func (s *natsSubscriber) Err() error {
	if s.conn.IsClosed() {
		return ErrDisconnected
	}

	return nil
}

func (s *natsSubscriber) Close() {
	_ = s.sub.Unsubscribe()

	s.conn.Close()
}
