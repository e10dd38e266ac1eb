package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/app-updater/internal/config"
	"github.com/oshokin/app-updater/internal/logger"
	"github.com/oshokin/app-updater/internal/version"
)

var (
	// configPath to the settings file shared by all subcommands.
	configPath string
	// logLevel is the minimum level written to stderr.
	logLevel string

	// rootCmd is the base command; the work is done by its subcommands.
	rootCmd = &cobra.Command{
		Use:   "app-updater",
		Short: "Keep an installed application on its latest release.",
		Long: `Checks a release feed for a newer version of an installed application,
downloads the matching asset, stops the running application and unpacks
the asset over the old installation.

Settings are read from a JSON file (YAML or TOML by extension) in the
user's home directory unless --config is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

// Execute runs the app-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(updateCmd, configCmd)
}
