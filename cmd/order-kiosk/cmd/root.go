package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/service/kiosk"
	"github.com/oshokin/order-kiosk/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string
	// serialPort overrides the pin bridge device.
	serialPort string

	// rootCmd represents the base command for running the order kiosk.
	rootCmd = &cobra.Command{
		Use:   "order-kiosk",
		Short: "Run the self-order kiosk.",
		Long: `Runs the self-order kiosk: a rotary encoder with push button drives the
menu on the TFT screen and a confirmed order is published to the broker.

Products, prices and encoder wiring come from the configuration file.
The pin bridge is reached over the serial port given in the file or by --serial.
The process exits with an error when the pin bridge link is lost.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return kiosk.Run(ctx, &kiosk.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
				SerialPort: serialPort,
			})
		},
	}
)

// Execute runs the order-kiosk CLI and exits with non-zero status on error.
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
