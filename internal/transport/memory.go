package transport

import (
	"context"
	"sync"
)

// Broker is an in-process broker. It also plays the network: SetDown breaks
// every open connection and refuses new ones until it is brought back.
type Broker struct {
	mu   sync.Mutex
	subs map[string][]*memorySubscriber
	// generation changes whenever the broker goes down; older connections are dead.
	generation int
	down       bool
	dials      int
}

// NewBroker returns an empty running broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]*memorySubscriber)}
}

// SetDown simulates a broker outage (true) or recovery (false).
func (b *Broker) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if down && !b.down {
		b.generation++
		b.subs = make(map[string][]*memorySubscriber)
	}

	b.down = down
}

// Dials returns the number of successful connections made so far.
func (b *Broker) Dials() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.dials
}

// DialPublisher connects a publisher.
func (b *Broker) DialPublisher(ctx context.Context) (Publisher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		return nil, ErrDisconnected
	}

	b.dials++

	return &memoryPublisher{broker: b, generation: b.generation}, nil
}

// DialSubscriber connects a subscriber for topic.
func (b *Broker) DialSubscriber(ctx context.Context, topic string) (Subscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.down {
		return nil, ErrDisconnected
	}

	b.dials++

	s := &memorySubscriber{
		broker:     b,
		topic:      topic,
		generation: b.generation,
		messages:   make(chan []byte, subscriberBuffer),
	}
	b.subs[topic] = append(b.subs[topic], s)

	return s, nil
}

func (b *Broker) alive(generation int) bool {
	return !b.down && generation == b.generation
}

func (b *Broker) publish(generation int, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.alive(generation) {
		return ErrDisconnected
	}

	for _, s := range b.subs[topic] {
		select {
		case s.messages <- append([]byte(nil), payload...):
		default:
		}
	}

	return nil
}

func (b *Broker) remove(s *memorySubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[s.topic]
	for i, candidate := range subs {
		if candidate == s {
			b.subs[s.topic] = append(subs[:i], subs[i+1:]...)

			return
		}
	}
}

type memoryPublisher struct {
	broker     *Broker
	generation int

	mu     sync.Mutex
	closed bool
}

func (p *memoryPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return ErrClosed
	}

	return p.broker.publish(p.generation, topic, payload)
}

func (p *memoryPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

type memorySubscriber struct {
	broker     *Broker
	topic      string
	generation int
	messages   chan []byte
}

func (s *memorySubscriber) Poll() ([]byte, bool) {
	select {
	case payload := <-s.messages:
		return payload, true
	default:
		return nil, false
	}
}

func (s *memorySubscriber) Err() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if !s.broker.alive(s.generation) {
		return ErrDisconnected
	}

	return nil
}

func (s *memorySubscriber) Close() {
	s.broker.remove(s)
}
