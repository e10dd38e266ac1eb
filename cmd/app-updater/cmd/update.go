package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/app-updater/internal/service/updater"
)

// updateCmd runs the update workflow once.
//
//nolint:gochecknoglobals // Cobra commands are package-level by convention.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release and install it.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		_, err := updater.Run(ctx, &updater.Options{
			ConfigPath: configPath,
		})

		return err
	},
}
