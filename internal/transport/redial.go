package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/order-kiosk/internal/logger"
)

// SubscriberRedialInterval is the minimum spacing between subscriber reconnect attempts.
const SubscriberRedialInterval = time.Second

// RedialingPublisher reconnects lazily: a failed publish drops the
// connection and the next publish dials a fresh one.
type RedialingPublisher struct {
	dialer Dialer

	mu      sync.Mutex
	current Publisher
}

// NewRedialingPublisher returns a publisher that dials on first use.
func NewRedialingPublisher(dialer Dialer) *RedialingPublisher {
	return &RedialingPublisher{dialer: dialer}
}

// Connect dials eagerly so startup can report an unreachable broker.
// A failure is not fatal; Publish will try again.
func (p *RedialingPublisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ensure(ctx)
}

// Publish sends the payload, dialing first if there is no live connection.
func (p *RedialingPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensure(ctx); err != nil {
		return err
	}

	if err := p.current.Publish(ctx, topic, payload); err != nil {
		p.current.Close()
		p.current = nil

		return err
	}

	return nil
}

// Close releases the current connection, if any.
func (p *RedialingPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
}

func (p *RedialingPublisher) ensure(ctx context.Context) error {
	if p.current != nil {
		return nil
	}

	publisher, err := p.dialer.DialPublisher(ctx)
	if err != nil {
		return fmt.Errorf("dial publisher: %w", err)
	}

	logger.Info(ctx, "Publisher connected")

	p.current = publisher

	return nil
}

// RedialingSubscriber reconnects from Poll, at most once per interval,
// so a missing broker never blocks the polling loop for long.
type RedialingSubscriber struct {
	ctx      context.Context //nolint:containedctx // Poll has no context of its own; dials and logs use this one.
	dialer   Dialer
	topic    string
	interval time.Duration

	mu          sync.Mutex
	current     Subscriber
	lastAttempt time.Time
	attempted   bool
}

// NewRedialingSubscriber returns a subscriber that dials on first poll.
func NewRedialingSubscriber(ctx context.Context, dialer Dialer, topic string) *RedialingSubscriber {
	return &RedialingSubscriber{
		ctx:      ctx,
		dialer:   dialer,
		topic:    topic,
		interval: SubscriberRedialInterval,
	}
}

// Poll returns the next pending payload, reconnecting first when needed.
func (s *RedialingSubscriber) Poll() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		if err := s.current.Err(); err != nil {
			logger.WarnKV(s.ctx, "Subscriber connection lost", "topic", s.topic, "error", err)

			s.current.Close()
			s.current = nil
		}
	}

	if s.current == nil && !s.redial() {
		return nil, false
	}

	return s.current.Poll()
}

// PollConnected returns the next pending payload from a live connection and
// never dials. A lost connection is left for the next Poll to replace.
func (s *RedialingSubscriber) PollConnected() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.Err() != nil {
		return nil, false
	}

	return s.current.Poll()
}

// Err reports whether there is currently no live connection.
func (s *RedialingSubscriber) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrDisconnected
	}

	return s.current.Err()
}

// Close releases the current connection, if any.
func (s *RedialingSubscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
}

func (s *RedialingSubscriber) redial() bool {
	now := time.Now()
	if s.attempted && now.Sub(s.lastAttempt) < s.interval {
		return false
	}

	s.attempted = true
	s.lastAttempt = now

	subscriber, err := s.dialer.DialSubscriber(s.ctx, s.topic)
	if err != nil {
		logger.WarnKV(s.ctx, "Subscriber reconnect failed", "topic", s.topic, "error", err)

		return false
	}

	logger.InfoKV(s.ctx, "Subscriber connected", "topic", s.topic)

	s.current = subscriber

	return true
}
