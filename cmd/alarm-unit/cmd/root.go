package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/service/alarmunit"
	"github.com/oshokin/order-kiosk/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// serialPort overrides the pin bridge device.
	serialPort string

	// rootCmd represents the base command for running the alarm unit.
	rootCmd = &cobra.Command{
		Use:   "alarm-unit [status-address]",
		Short: "Run the countdown and alarm unit.",
		Long: `Runs the remote countdown/alarm unit.

Every order received from the broker adds 10 seconds per item. The unit counts
the time down on the 4-digit display and then blinks its LEDs and sounds the
buzzer until the dismissal button is pressed or alarm-status dismiss is used.

The status API listens on the address from the configuration file; an argument
overrides it (e.g. :7070). An empty address disables the API.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var statusAddress string
			if len(args) > 0 {
				statusAddress = args[0]
			}

			return alarmunit.Run(ctx, &alarmunit.Options{
				ConfigPath:    configPath,
				LogLevel:      logLevel,
				SerialPort:    serialPort,
				StatusAddress: statusAddress,
			})
		},
	}
)

// Execute runs the alarm-unit CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&serialPort, "serial", "", "pin bridge serial port override")
}
