//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
)

// ErrLinkLost is returned when the hardware link dies under a running loop.
var ErrLinkLost = errors.New("hardware link lost")

// Link is a connection that can die on its own, such as the pin bridge.
type Link interface {
	Done() <-chan struct{}
	Err() error
}

// RunUntilLost runs fn until ctx is done or link dies, whichever is first.
// Losing the link is reported as ErrLinkLost so the process exits non-zero
// and the supervisor restarts it.
func RunUntilLost(ctx context.Context, link Link, fn func(context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lost := make(chan struct{})

	go func() {
		select {
		case <-link.Done():
			close(lost)
			cancel()
		case <-runCtx.Done():
		}
	}()

	err := fn(runCtx)

	select {
	case <-lost:
		if linkErr := link.Err(); linkErr != nil {
			return fmt.Errorf("%w: %w", ErrLinkLost, linkErr)
		}

		return ErrLinkLost
	default:
		return err
	}
}
