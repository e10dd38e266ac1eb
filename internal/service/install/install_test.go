package install

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExtractArgs uses the overwrite-without-prompt argument set.
func TestExtractArgs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"x", "-y", "app.7z"}, ExtractArgs("app.7z"))
}

// TestExtract_MissingTool reports a tool that cannot be found.
func TestExtract_MissingTool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := Extract(context.Background(), filepath.Join(dir, "no-such-7z"), filepath.Join(dir, "a.7z"), dir)
	require.ErrorIs(t, err, ErrExtractionFailed)
}

// TestReplace_SwapsExecutable replaces the target content and leaves no backup behind.
func TestReplace_SwapsExecutable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "app")
	source := filepath.Join(dir, "download.bin")

	require.NoError(t, os.WriteFile(target, []byte("old build"), DefaultExecutableMode))
	require.NoError(t, os.WriteFile(source, []byte("new build"), 0o600))

	require.NoError(t, Replace(context.Background(), source, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "new build", string(got))

	_, err = os.Stat(filepath.Join(dir, ".app.old"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestReplace_MissingSource reports ErrReplaceFailed.
func TestReplace_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := Replace(context.Background(), filepath.Join(dir, "missing.bin"), filepath.Join(dir, "app"))
	require.ErrorIs(t, err, ErrReplaceFailed)
}
