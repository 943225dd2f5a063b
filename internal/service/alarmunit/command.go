package alarmunit

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/order-kiosk/internal/api/grpc/alarm"
	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/hal"
	"github.com/oshokin/order-kiosk/internal/hal/serialbridge"
	"github.com/oshokin/order-kiosk/internal/logger"
	"github.com/oshokin/order-kiosk/internal/service/common"
	"github.com/oshokin/order-kiosk/internal/transport"
	"github.com/oshokin/order-kiosk/internal/version"
)

// Options controls the alarm-unit process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel overrides the level from the configuration file when set.
	LogLevel string
	// SerialPort overrides the pin bridge device from the configuration file when set.
	SerialPort string
	// StatusAddress overrides the status API listen address when set.
	StatusAddress string
}

// Hardware is everything the unit drives or reads.
type Hardware struct {
	// Button is the dismissal button; its rising edge raises the cancellation flag.
	Button hal.EdgePin
	// Buzzer sounds the alert tone.
	Buzzer hal.Buzzer
	// Segments is the 4-digit 7-segment display.
	Segments hal.SegmentBus
	// Indicators blink during the alert.
	Indicators hal.Indicators
}

// Run drives the alarm unit until the context is canceled or the pin bridge is lost.
func Run(ctx context.Context, opts *Options) error {
	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Apply log settings and name the logger for tracking.
	ctx = common.ConfigureLogging(ctx, cfg.Log, opts.LogLevel, "alarm-unit")

	// Two units on one host would fight over the same pins.
	if err = common.EnsureSingleInstance(ctx); err != nil {
		return err
	}

	if opts.SerialPort != "" {
		cfg.Hardware.SerialPort = opts.SerialPort
	}

	if opts.StatusAddress != "" {
		cfg.Alarm.StatusAddress = opts.StatusAddress
	}

	bridge, err := serialbridge.Open(ctx, cfg.Hardware)
	if err != nil {
		return fmt.Errorf("open pin bridge: %w", err)
	}

	defer func() {
		_ = bridge.Close()
	}()

	hw, err := openHardware(bridge, cfg.Alarm, cfg.Hardware.ActiveLowSegments)
	if err != nil {
		return err
	}

	dialer, err := transport.FromConfig(cfg.Transport, "alarm")
	if err != nil {
		return fmt.Errorf("configure transport: %w", err)
	}

	// Dials lazily from the idle loop, so a missing broker never blocks startup.
	subscriber := transport.NewRedialingSubscriber(ctx, dialer, cfg.Transport.Topic)
	defer subscriber.Close()

	logger.InfoKV(ctx, "Alarm unit ready", append(version.KV(),
		"transport", cfg.Transport.Kind,
		"topic", cfg.Transport.Topic,
		"status_address", cfg.Alarm.StatusAddress,
	)...)

	return common.RunUntilLost(ctx, bridge, func(ctx context.Context) error {
		return Serve(ctx, hw, subscriber, cfg.Alarm.StatusAddress)
	})
}

// Serve runs the scheduler and, when statusAddress is set, the status API
// until ctx is done.
func Serve(ctx context.Context, hw Hardware, source Source, statusAddress string) error {
	flag := new(Flag)

	// Interrupt context: only raise the flag.
	hw.Button.OnRising(flag.Raise)

	scheduler := NewScheduler(
		source,
		NewMultiplexer(hw.Segments),
		NewAlerter(hw.Indicators, hw.Buzzer),
		flag,
	)

	if statusAddress == "" {
		return scheduler.Run(ctx)
	}

	// Setup TCP listener for the status API.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", statusAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", statusAddress, err)
	}

	return serve(ctx, scheduler, lis)
}

// serve runs the scheduler next to the status API on lis. A failing API
// stops the scheduler, and its error is returned.
func serve(ctx context.Context, scheduler *Scheduler, lis net.Listener) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	grpcServer := grpc.NewServer()
	healthServer := api.Register(grpcServer, api.NewServer(scheduler))

	serveErr := make(chan error, 1)

	go func() {
		defer close(serveErr)

		logger.InfoKV(ctx, "Status API listening", "listen_address", lis.Addr().String())

		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.ErrorKV(ctx, "Status API failed, stopping", "error", err)

			serveErr <- fmt.Errorf("serve gRPC: %w", err)

			cancel()
		}
	}()

	runErr := scheduler.Run(runCtx)

	logger.Info(ctx, "Shutting down status API")
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	if err := <-serveErr; err != nil {
		return err
	}

	return runErr
}

func openHardware(bridge *serialbridge.Bridge, a config.Alarm, activeLow bool) (Hardware, error) {
	button, err := bridge.Input(a.ButtonPin, serialbridge.PullDown)
	if err != nil {
		return Hardware{}, fmt.Errorf("configure button line: %w", err)
	}

	buzzer, err := bridge.Buzzer(a.BuzzerPin)
	if err != nil {
		return Hardware{}, fmt.Errorf("configure buzzer: %w", err)
	}

	digits, err := bridge.Outputs(a.DigitPins)
	if err != nil {
		return Hardware{}, fmt.Errorf("configure digit lines: %w", err)
	}

	segments, err := bridge.Outputs(a.SegmentPins)
	if err != nil {
		return Hardware{}, fmt.Errorf("configure segment lines: %w", err)
	}

	leds, err := bridge.Outputs(a.LEDPins)
	if err != nil {
		return Hardware{}, fmt.Errorf("configure indicator lines: %w", err)
	}

	return Hardware{
		Button:     button,
		Buzzer:     buzzer,
		Segments:   hal.NewPinSegmentBus(digits, segments, activeLow),
		Indicators: hal.PinIndicators(leds),
	}, nil
}
