package updater

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCheckTransition accepts the workflow edges and rejects shortcuts.
func TestCheckTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]State{
		{StateLoadingConfig, StateFetchingRelease},
		{StateFetchingRelease, StateComparingVersions},
		{StateComparingVersions, StateUpToDate},
		{StateComparingVersions, StateDownloading},
		{StateDownloading, StateTerminating},
		{StateTerminating, StateExtracting},
		{StateExtracting, StateDone},
		{StateLoadingConfig, StateFailed},
		{StateExtracting, StateFailed},
	}
	for _, edge := range allowed {
		require.NoError(t, checkTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}

	rejected := [][2]State{
		{StateLoadingConfig, StateDownloading},
		{StateComparingVersions, StateExtracting},
		{StateDownloading, StateExtracting},
		{StateDone, StateFailed},
		{StateUpToDate, StateDownloading},
		{StateFailed, StateLoadingConfig},
	}
	for _, edge := range rejected {
		require.ErrorIs(t, checkTransition(edge[0], edge[1]), ErrIllegalTransition, "%s -> %s", edge[0], edge[1])
	}
}

// TestStateString names every state.
func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ComparingVersions", StateComparingVersions.String())
	require.Equal(t, "State(42)", State(42).String())
	require.True(t, StateUpToDate.Successful())
	require.False(t, StateFailed.Successful())
	require.True(t, StateFailed.Terminal())
	require.False(t, StateTerminating.Terminal())
}
