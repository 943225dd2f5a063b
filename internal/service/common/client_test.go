//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/order-kiosk/internal/domain/alarm"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_NotConnected asserts that calls through an unconnected client fail fast.
func TestClient_NotConnected(t *testing.T) {
	t.Parallel()

	c := new(Client)

	_, err := c.GetStatus(context.Background())
	require.ErrorIs(t, err, errNotConnected)

	require.ErrorIs(t, c.Dismiss(context.Background(), domain.Actor{}), errNotConnected)

	_, err = c.Healthy(context.Background())
	require.ErrorIs(t, err, errNotConnected)

	require.NoError(t, c.Close())
}
