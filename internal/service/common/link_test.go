//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLink struct {
	done chan struct{}
	err  error
}

func (l *fakeLink) Done() <-chan struct{} { return l.done }

func (l *fakeLink) Err() error { return l.err }

// TestRunUntilLost_ReturnsLoopResult passes through the loop's own result.
func TestRunUntilLost_ReturnsLoopResult(t *testing.T) {
	t.Parallel()

	link := &fakeLink{done: make(chan struct{})}
	boom := errors.New("boom")

	err := RunUntilLost(context.Background(), link, func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = RunUntilLost(ctx, link, func(ctx context.Context) error {
		<-ctx.Done()

		return nil
	})
	require.NoError(t, err)
}

// TestRunUntilLost_StopsOnLinkLoss cancels the loop and reports the link error.
func TestRunUntilLost_StopsOnLinkLoss(t *testing.T) {
	t.Parallel()

	link := &fakeLink{done: make(chan struct{}), err: io.ErrUnexpectedEOF}
	close(link.done)

	err := RunUntilLost(context.Background(), link, func(ctx context.Context) error {
		<-ctx.Done()

		return nil
	})
	require.ErrorIs(t, err, ErrLinkLost)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
