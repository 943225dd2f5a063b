package transport

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/logger"
)

// mqttQoS is fire-and-forget delivery.
const mqttQoS = 0

// disconnectQuiesce is how long a closing client waits for in-flight work, in ms.
const disconnectQuiesce = 250

// MQTTDialer connects to an MQTT broker with QoS 0.
type MQTTDialer struct {
	// Broker is the broker address, e.g. tcp://broker.emqx.io:1883.
	Broker string
	// ClientID prefixes the per-connection identifier.
	ClientID string
	// Timeout bounds connect, publish and subscribe calls.
	Timeout time.Duration
}

func (d *MQTTDialer) timeout() time.Duration {
	if d.Timeout <= 0 {
		return config.DefaultTimeout
	}

	return d.Timeout
}

func (d *MQTTDialer) connect(ctx context.Context, role string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(d.Broker).
		SetClientID(NewClientID(d.ClientID, role)).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectTimeout(d.timeout()).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.WarnKV(ctx, "MQTT connection lost", "broker", d.Broker, "error", err)
		})

	client := mqtt.NewClient(opts)

	if err := wait(ctx, client.Connect(), d.timeout()); err != nil {
		return nil, fmt.Errorf("connect to mqtt %s: %w", d.Broker, err)
	}

	return client, nil
}

// DialPublisher connects a publisher.
func (d *MQTTDialer) DialPublisher(ctx context.Context) (Publisher, error) {
	client, err := d.connect(ctx, "pub")
	if err != nil {
		return nil, err
	}

	return &mqttPublisher{client: client, timeout: d.timeout()}, nil
}

// DialSubscriber connects a subscriber for topic.
// Payloads beyond the buffer are dropped with a warning; delivery is at-most-once anyway.
func (d *MQTTDialer) DialSubscriber(ctx context.Context, topic string) (Subscriber, error) {
	client, err := d.connect(ctx, "sub")
	if err != nil {
		return nil, err
	}

	s := &mqttSubscriber{
		client:   client,
		topic:    topic,
		messages: make(chan []byte, subscriberBuffer),
	}

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case s.messages <- msg.Payload():
		default:
			logger.WarnKV(ctx, "Subscriber buffer full, payload dropped", "topic", topic)
		}
	}

	if err = wait(ctx, client.Subscribe(topic, mqttQoS, handler), d.timeout()); err != nil {
		client.Disconnect(disconnectQuiesce)

		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	return s, nil
}

// wait blocks until the token completes, the timeout passes or ctx is done.
func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return context.DeadlineExceeded
	case <-ctx.Done():
		return ctx.Err()
	}
}

type mqttPublisher struct {
	client  mqtt.Client
	timeout time.Duration
}

func (p *mqttPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		return ErrDisconnected
	}

	if err := wait(ctx, p.client.Publish(topic, mqttQoS, false, payload), p.timeout); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(disconnectQuiesce)
}

type mqttSubscriber struct {
	client   mqtt.Client
	topic    string
	messages chan []byte
}

func (s *mqttSubscriber) Poll() ([]byte, bool) {
	select {
	case payload := <-s.messages:
		return payload, true
	default:
		return nil, false
	}
}

func (s *mqttSubscriber) Err() error {
	if !s.client.IsConnectionOpen() {
		return ErrDisconnected
	}

	return nil
}

func (s *mqttSubscriber) Close() {
	s.client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	s.client.Disconnect(disconnectQuiesce)
}
