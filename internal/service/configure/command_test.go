package configure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/app-updater/internal/config"
)

// TestRun_RequiresOneAction rejects zero or several actions.
func TestRun_RequiresOneAction(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")

	require.ErrorIs(t, Run(context.Background(), &Options{ConfigPath: path}), ErrActionRequired)
	require.ErrorIs(t, Run(context.Background(), &Options{ConfigPath: path, List: true, Remove: "proxy"}), ErrActionRequired)
	require.ErrorIs(t, Run(context.Background(), nil), ErrActionRequired)
}

// TestRun_SetCreatesFileAndRemoveClears persists edits between invocations.
func TestRun_SetCreatesFileAndRemoveClears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	require.NoError(t, Run(ctx, &Options{ConfigPath: path, Set: "url=https://example.com/latest"}))
	require.NoError(t, Run(ctx, &Options{ConfigPath: path, Set: "proxy=http://127.0.0.1:7890"}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/latest", cfg.URL)
	require.Equal(t, "http://127.0.0.1:7890", cfg.Proxy)

	require.NoError(t, Run(ctx, &Options{ConfigPath: path, Remove: "proxy"}))

	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Empty(t, cfg.Proxy)
	require.Equal(t, "https://example.com/latest", cfg.URL)
}

// TestRun_Errors reports unknown keys, bad assignments and broken files.
func TestRun_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	require.ErrorIs(t, Run(ctx, &Options{ConfigPath: path, Set: "colour=blue"}), config.ErrUnknownKey)
	require.ErrorIs(t, Run(ctx, &Options{ConfigPath: path, Remove: "proxy"}), config.ErrNotFound)
	require.Error(t, Run(ctx, &Options{ConfigPath: path, Set: "url"}))

	// Failed edits and removals never create the file.
	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, Run(ctx, &Options{ConfigPath: path, Set: "path=/opt/app/app"}))
	require.ErrorIs(t, Run(ctx, &Options{ConfigPath: path, Remove: "colour"}), config.ErrUnknownKey)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), config.DefaultFilePermissions))
	require.ErrorIs(t, Run(ctx, &Options{ConfigPath: broken, List: true}), config.ErrMalformed)
}

// TestRun_List prints every key, including unset ones.
func TestRun_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, config.Save(path, &config.Config{URL: "https://example.com/latest", Unzip: "7z"}))

	var out bytes.Buffer

	require.NoError(t, Run(ctx, &Options{ConfigPath: path, List: true, Out: &out}))

	listing := out.String()
	require.Contains(t, listing, "Key")
	require.Contains(t, listing, "https://example.com/latest")
	require.Contains(t, listing, "7z")

	for _, key := range config.Keys() {
		require.Contains(t, listing, key)
	}
}
