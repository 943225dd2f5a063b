package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oshokin/order-kiosk/internal/config"
)

// Publisher sends payloads to a topic.
type Publisher interface {
	// Publish sends one payload and returns once the broker accepted it.
	Publish(ctx context.Context, topic string, payload []byte) error
	// Close releases the connection.
	Close()
}

// Subscriber receives payloads from the topic it was opened for.
type Subscriber interface {
	// Poll returns the next pending payload without blocking.
	Poll() ([]byte, bool)
	// Err reports a broken connection; nil while healthy.
	Err() error
	// Close releases the connection.
	Close()
}

// Dialer opens connections to one broker.
type Dialer interface {
	// DialPublisher connects a publisher.
	DialPublisher(ctx context.Context) (Publisher, error)
	// DialSubscriber connects a subscriber for topic.
	DialSubscriber(ctx context.Context, topic string) (Subscriber, error)
}

// subscriberBuffer is how many payloads a subscriber holds between polls.
const subscriberBuffer = 64

var (
	// ErrDisconnected is returned when the broker connection is gone.
	ErrDisconnected = errors.New("broker connection lost")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("connection closed")
	// errUnknownKind is returned for an unsupported transport kind.
	errUnknownKind = errors.New("unknown transport kind")
)

// FromConfig returns the dialer selected by the transport settings.
func FromConfig(cfg config.Transport, role string) (Dialer, error) {
	switch cfg.Kind {
	case config.TransportNATS:
		return &NATSDialer{URL: cfg.URL, Name: NewClientID(cfg.ClientID, role), Timeout: cfg.Timeout}, nil
	case config.TransportMQTT:
		return &MQTTDialer{Broker: cfg.URL, ClientID: joinID(cfg.ClientID, role), Timeout: cfg.Timeout}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownKind, cfg.Kind)
	}
}

// NewClientID returns a broker client identifier unique to this process.
// Brokers drop an older session when a new one reuses its identifier.
func NewClientID(parts ...string) string {
	return joinID(append(parts, uuid.NewString())...)
}

func joinID(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}

	return strings.Join(kept, "-")
}
