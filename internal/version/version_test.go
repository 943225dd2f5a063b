package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full("alarm-unit"), Short())
	require.Contains(t, Full("alarm-unit"), "alarm-unit")
	require.Equal(t, []any{"version", Version, "commit", Commit}, KV())
}

// TestAttachCobraVersionCommand prints the root command name with the version.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "order-kiosk [flags]"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Equal(t, Full("order-kiosk")+"\n", out.String())
}
