package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/app-updater/internal/service/configure"
)

var (
	// configOptions collects the flags of the config subcommand.
	//nolint:gochecknoglobals // Bound to cobra flags.
	configOptions configure.Options

	// configCmd inspects and edits the settings file.
	//nolint:gochecknoglobals // Cobra commands are package-level by convention.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "List, set or remove configuration keys.",
		Long: `Inspect or edit the settings file used by update.

Known keys: url, path, pattern, unzip, proxy, timeout, install, archive.
Setting a key on a missing file creates it.`,
		Example: `  app-updater config --list
  app-updater config --set proxy=http://127.0.0.1:7890
  app-updater config --remove proxy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			opts := configOptions
			opts.ConfigPath = configPath
			opts.Out = cmd.OutOrStdout()

			return configure.Run(ctx, &opts)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := configCmd.Flags()
	flags.BoolVarP(&configOptions.List, "list", "l", false, "print every key and its value")
	flags.StringVarP(&configOptions.Set, "set", "s", "", "set a key, as <key>=<value>")
	flags.StringVarP(&configOptions.Remove, "remove", "r", "", "clear a key")

	configCmd.MarkFlagsMutuallyExclusive("list", "set", "remove")
	configCmd.MarkFlagsOneRequired("list", "set", "remove")
}
