package configure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rodaine/table"

	"github.com/oshokin/app-updater/internal/config"
	"github.com/oshokin/app-updater/internal/logger"
)

// ErrActionRequired is returned unless exactly one of list, set and remove is requested.
var ErrActionRequired = errors.New("exactly one of --list, --set or --remove is required")

// Options configures a single config command invocation.
type Options struct {
	// ConfigPath is the settings file; empty means config.DefaultPath.
	ConfigPath string
	// List prints every key with its value.
	List bool
	// Set is a "key=value" assignment to persist.
	Set string
	// Remove is a key to clear.
	Remove string
	// Out receives the table printed by List; nil means stdout.
	Out io.Writer
}

// Run performs the requested action against the settings file.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "app-updater-config")

	if opts == nil || countActions(opts) != 1 {
		return ErrActionRequired
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	switch {
	case opts.List:
		cfg, err := loadOrEmpty(ctx, path)
		if err != nil {
			return err
		}

		out := opts.Out
		if out == nil {
			out = os.Stdout
		}

		printEntries(out, config.Entries(cfg))

		return nil
	case opts.Set != "":
		key, value, err := config.ParseAssignment(opts.Set)
		if err != nil {
			return err
		}

		cfg, err := loadOrEmpty(ctx, path)
		if err != nil {
			return err
		}

		return edit(ctx, path, cfg, key, func(cfg *config.Config) error {
			return config.Set(cfg, key, value)
		})
	default:
		// Removing from a file that does not exist would only create an empty one.
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		return edit(ctx, path, cfg, opts.Remove, func(cfg *config.Config) error {
			return config.Unset(cfg, opts.Remove)
		})
	}
}

// edit applies change to cfg and writes it back to path.
func edit(ctx context.Context, path string, cfg *config.Config, key string, change func(*config.Config) error) error {
	if err := change(cfg); err != nil {
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Configuration saved", "path", path, "key", key)

	return nil
}

// loadOrEmpty starts from an empty config when the file does not exist yet.
func loadOrEmpty(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotFound) {
		logger.DebugKV(ctx, "Configuration file does not exist yet", "path", path)
		return new(config.Config), nil
	}

	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return cfg, nil
}

func printEntries(out io.Writer, entries []config.Entry) {
	tbl := table.New("Key", "Value").WithWriter(out)

	for _, entry := range entries {
		tbl.AddRow(entry.Key, entry.Value)
	}

	tbl.Print()
}

func countActions(opts *Options) int {
	count := 0

	for _, requested := range []bool{opts.List, opts.Set != "", opts.Remove != ""} {
		if requested {
			count++
		}
	}

	return count
}
