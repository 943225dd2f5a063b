//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/order-kiosk/internal/api/grpc/alarm"
	"github.com/oshokin/order-kiosk/internal/config"
	domain "github.com/oshokin/order-kiosk/internal/domain/alarm"
)

// Client wraps the alarm unit status API with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm unit.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errNotConnected is returned when calling through a client without a connection.
	errNotConnected = errors.New("client is not connected")
)

// Dial establishes a gRPC connection to the alarm unit.
// Note: this uses insecure transport credentials; the status API is meant
// for the shop's local network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm unit: %w", err)
	}

	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetStatus retrieves the alarm unit status.
func (c *Client) GetStatus(ctx context.Context) (domain.Status, error) {
	msg, err := c.GetStatusMessage(ctx)
	if err != nil {
		return domain.Status{}, err
	}

	status, err := api.StatusFromStruct(msg)
	if err != nil {
		return domain.Status{}, fmt.Errorf("get status: %w", err)
	}

	return status, nil
}

// GetStatusMessage retrieves the raw status message, e.g. for printing as JSON.
func (c *Client) GetStatusMessage(ctx context.Context) (*structpb.Struct, error) {
	if c == nil || c.conn == nil {
		return nil, errNotConnected
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, api.GetStatusMethod, new(emptypb.Empty), out); err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return out, nil
}

// Dismiss asks the alarm unit to cancel its countdown or alert on behalf of actor.
func (c *Client) Dismiss(ctx context.Context, actor domain.Actor) error {
	if c == nil || c.conn == nil {
		return errNotConnected
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	callCtx = metadata.AppendToOutgoingContext(callCtx, api.ActorMetadataKey, actor.String())

	if err := c.conn.Invoke(callCtx, api.DismissMethod, new(emptypb.Empty), new(emptypb.Empty)); err != nil {
		return fmt.Errorf("dismiss: %w", err)
	}

	return nil
}

// Healthy reports whether the unit's health service says it is serving.
func (c *Client) Healthy(ctx context.Context) (bool, error) {
	if c == nil || c.conn == nil {
		return false, errNotConnected
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := healthpb.NewHealthClient(c.conn).Check(callCtx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return false, fmt.Errorf("health check: %w", err)
	}

	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
