//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFindOtherInstance ignores the calling process itself.
func TestFindOtherInstance(t *testing.T) {
	t.Parallel()

	self, err := os.Executable()
	require.NoError(t, err)

	pid, err := findOtherInstance(filepath.Base(self), os.Getpid())
	require.NoError(t, err)
	require.Zero(t, pid, "the test binary runs once")

	pid, err = findOtherInstance("no-such-controller-binary", os.Getpid())
	require.NoError(t, err)
	require.Zero(t, pid)

	require.NoError(t, EnsureSingleInstance(context.Background()))
}
