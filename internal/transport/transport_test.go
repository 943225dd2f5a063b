package transport

import (
	"context"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/config"
)

const topic = "kiosk.orders"

func TestBroker_DeliversToTopicSubscribers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	broker := NewBroker()

	sub, err := broker.DialSubscriber(ctx, topic)
	require.NoError(t, err)

	other, err := broker.DialSubscriber(ctx, "elsewhere")
	require.NoError(t, err)

	pub, err := broker.DialPublisher(ctx)
	require.NoError(t, err)

	_, ok := sub.Poll()
	require.False(t, ok)

	require.NoError(t, pub.Publish(ctx, topic, []byte("Pizza, Sok")))

	payload, ok := sub.Poll()
	require.True(t, ok)
	require.Equal(t, "Pizza, Sok", string(payload))

	_, ok = other.Poll()
	require.False(t, ok)

	sub.Close()
	require.NoError(t, pub.Publish(ctx, topic, []byte("Kolac")))

	_, ok = sub.Poll()
	require.False(t, ok)
}

func TestBroker_OutageBreaksConnections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	broker := NewBroker()

	sub, err := broker.DialSubscriber(ctx, topic)
	require.NoError(t, err)

	pub, err := broker.DialPublisher(ctx)
	require.NoError(t, err)

	broker.SetDown(true)

	require.ErrorIs(t, sub.Err(), ErrDisconnected)
	require.ErrorIs(t, pub.Publish(ctx, topic, []byte("x")), ErrDisconnected)

	_, err = broker.DialPublisher(ctx)
	require.ErrorIs(t, err, ErrDisconnected)

	// Recovery does not revive old connections.
	broker.SetDown(false)
	require.ErrorIs(t, sub.Err(), ErrDisconnected)

	pub.Close()
	require.ErrorIs(t, pub.Publish(ctx, topic, []byte("x")), ErrClosed)
}

func TestRedialingPublisher_ReconnectsOnNextPublish(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	broker := NewBroker()

	sub, err := broker.DialSubscriber(ctx, topic)
	require.NoError(t, err)

	pub := NewRedialingPublisher(broker)
	defer pub.Close()

	require.NoError(t, pub.Connect(ctx))
	require.NoError(t, pub.Publish(ctx, topic, []byte("one")))

	broker.SetDown(true)
	require.Error(t, pub.Publish(ctx, topic, []byte("lost")))
	require.Error(t, pub.Publish(ctx, topic, []byte("lost too")))

	broker.SetDown(false)

	sub, err = broker.DialSubscriber(ctx, topic)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, topic, []byte("two")))

	payload, ok := sub.Poll()
	require.True(t, ok)
	require.Equal(t, "two", string(payload))
}

func TestRedialingSubscriber_RetriesAtMostOncePerInterval(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		broker := NewBroker()
		broker.SetDown(true)

		sub := NewRedialingSubscriber(ctx, broker, topic)
		defer sub.Close()

		// A tight polling loop while the broker is down.
		for range 50 {
			_, ok := sub.Poll()
			require.False(t, ok)
			time.Sleep(10 * time.Millisecond)
		}

		require.ErrorIs(t, sub.Err(), ErrDisconnected)

		broker.SetDown(false)
		time.Sleep(SubscriberRedialInterval)

		_, ok := sub.Poll()
		require.False(t, ok)
		require.NoError(t, sub.Err())
		require.Equal(t, 1, broker.Dials())

		pub, err := broker.DialPublisher(ctx)
		require.NoError(t, err)
		require.NoError(t, pub.Publish(ctx, topic, []byte("Sok")))

		payload, ok := sub.Poll()
		require.True(t, ok)
		require.Equal(t, "Sok", string(payload))

		// Outage: the dead connection is dropped at once, the replacement waits for the interval.
		broker.SetDown(true)
		broker.SetDown(false)

		_, ok = sub.Poll()
		require.False(t, ok)
		require.ErrorIs(t, sub.Err(), ErrDisconnected)
		require.Equal(t, 1, broker.Dials())

		time.Sleep(SubscriberRedialInterval)

		_, ok = sub.Poll()
		require.False(t, ok)
		require.NoError(t, sub.Err())
		require.Equal(t, 2, broker.Dials())
	})
}

func TestRedialingSubscriber_PollConnectedNeverDials(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		broker := NewBroker()

		sub := NewRedialingSubscriber(ctx, broker, topic)
		defer sub.Close()

		_, ok := sub.PollConnected()
		require.False(t, ok)
		require.Zero(t, broker.Dials())

		_, ok = sub.Poll()
		require.False(t, ok)
		require.Equal(t, 1, broker.Dials())

		pub, err := broker.DialPublisher(ctx)
		require.NoError(t, err)
		require.NoError(t, pub.Publish(ctx, topic, []byte("Sok")))

		payload, ok := sub.PollConnected()
		require.True(t, ok)
		require.Equal(t, "Sok", string(payload))

		// Outage: only Poll replaces the dead connection.
		broker.SetDown(true)
		broker.SetDown(false)
		time.Sleep(2 * SubscriberRedialInterval)

		_, ok = sub.PollConnected()
		require.False(t, ok)
		require.Equal(t, 2, broker.Dials())

		_, ok = sub.Poll()
		require.False(t, ok)
		require.NoError(t, sub.Err())
		require.Equal(t, 3, broker.Dials())
	})
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	d, err := FromConfig(config.Transport{Kind: config.TransportNATS, URL: "nats://127.0.0.1:4222", ClientID: "kiosk"}, "pub")
	require.NoError(t, err)

	natsDialer, ok := d.(*NATSDialer)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(natsDialer.Name, "kiosk-pub-"))

	d, err = FromConfig(config.Transport{Kind: config.TransportMQTT, URL: "tcp://127.0.0.1:1883", ClientID: "kiosk"}, "sub")
	require.NoError(t, err)

	mqttDialer, ok := d.(*MQTTDialer)
	require.True(t, ok)
	require.Equal(t, "kiosk-sub", mqttDialer.ClientID)

	_, err = FromConfig(config.Transport{Kind: "amqp"}, "pub")
	require.ErrorIs(t, err, errUnknownKind)
}

func TestNewClientID(t *testing.T) {
	t.Parallel()

	a, b := NewClientID("kiosk", "", "pub"), NewClientID("kiosk", "", "pub")
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "kiosk-pub-"))
}
