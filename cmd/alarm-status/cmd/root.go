package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/service/status"
	"github.com/oshokin/order-kiosk/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// retryInterval is the delay between dismissal attempts.
	retryInterval time.Duration
	// watchInterval is the polling period of watch.
	watchInterval time.Duration

	// rootCmd prints the unit status once.
	rootCmd = &cobra.Command{
		Use:   "alarm-status [unit-address]",
		Short: "Show or control the alarm unit.",
		Long: `Queries the alarm unit status API and prints the status as JSON:
state (idle, counting_down, alerting), remaining and queued seconds and the
last dismissal.

Unit address can be provided as argument or loaded from configuration file.
When an address is given the configuration file is optional.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return status.Show(ctx, options(args, 0), cmd.OutOrStdout())
		},
	}

	// dismissCmd cancels the countdown or alert remotely.
	dismissCmd = &cobra.Command{
		Use:   "dismiss [unit-address]",
		Short: "Dismiss the running countdown or alert.",
		Long: `Raises the unit's cancellation flag, the same way the dismissal button does.

The request is repeated until the unit acknowledges it, so the command may be
started before the unit is reachable. The unit records user@host as the
dismissing actor.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return status.Dismiss(ctx, options(args, retryInterval))
		},
	}

	// watchCmd logs the status periodically.
	watchCmd = &cobra.Command{
		Use:   "watch [unit-address]",
		Short: "Log the unit status at a fixed interval.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return status.Watch(ctx, options(args, watchInterval))
		},
	}
)

// Execute runs the alarm-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options builds the command options; the optional argument overrides the configured address.
func options(args []string, interval time.Duration) *status.Options {
	opts := &status.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		Interval:   interval,
	}

	if len(args) > 0 {
		opts.Address = args[0]
	}

	return opts
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	dismissCmd.Flags().
		DurationVarP(&retryInterval, "interval", "i", status.DefaultRetryInterval, "delay between dismissal attempts")
	watchCmd.Flags().
		DurationVarP(&watchInterval, "interval", "i", status.DefaultWatchInterval, "polling interval")

	rootCmd.AddCommand(dismissCmd, watchCmd)
}
