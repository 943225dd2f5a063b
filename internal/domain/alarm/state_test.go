package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSecondsFor verifies ten seconds per non-empty item.
func TestSecondsFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, 20, SecondsFor([]byte("Pizza, Sok")))
	require.Equal(t, 10, SecondsFor([]byte(" Kolac ,")))
	require.Zero(t, SecondsFor([]byte(" , , ")))
	require.Zero(t, SecondsFor(nil))
}

// TestRunStateNames verifies String and ParseRunState agree.
func TestRunStateNames(t *testing.T) {
	t.Parallel()

	for _, state := range []RunState{Idle, CountingDown, Alerting} {
		parsed, ok := ParseRunState(state.String())
		require.True(t, ok)
		require.Equal(t, state, parsed)
	}

	_, ok := ParseRunState("exploded")
	require.False(t, ok)
	require.Equal(t, "unknown", RunState(42).String())
}

// TestActor verifies the user@host form.
func TestActor(t *testing.T) {
	t.Parallel()

	a := Actor{Hostname: "front-desk", Username: "neda"}
	require.Equal(t, "neda@front-desk", a.String())

	parsed, ok := ParseActor(a.String())
	require.True(t, ok)
	require.Equal(t, a, parsed)

	for _, bad := range []string{"", "neda", "@host", "neda@"} {
		_, ok = ParseActor(bad)
		require.False(t, ok, bad)
	}

	require.True(t, Dismissal{}.IsZero())
	require.False(t, Dismissal{By: LocalButton}.IsZero())
}
