package kiosk

import (
	"context"
	"fmt"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/domain/order"
	"github.com/oshokin/order-kiosk/internal/hal/serialbridge"
	"github.com/oshokin/order-kiosk/internal/input"
	"github.com/oshokin/order-kiosk/internal/logger"
	"github.com/oshokin/order-kiosk/internal/service/common"
	"github.com/oshokin/order-kiosk/internal/transport"
	"github.com/oshokin/order-kiosk/internal/version"
)

// Options controls the order-kiosk process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel overrides the level from the configuration file when set.
	LogLevel string
	// SerialPort overrides the pin bridge device from the configuration file when set.
	SerialPort string
}

// Run drives the kiosk until the context is canceled or the pin bridge is lost.
func Run(ctx context.Context, opts *Options) error {
	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Apply log settings and name the logger for tracking.
	ctx = common.ConfigureLogging(ctx, cfg.Log, opts.LogLevel, "order-kiosk")

	// Two kiosks on one host would fight over the same pins.
	if err = common.EnsureSingleInstance(ctx); err != nil {
		return err
	}

	menu, err := order.NewMenu(menuItems(cfg.Kiosk.Menu))
	if err != nil {
		return fmt.Errorf("build menu: %w", err)
	}

	if opts.SerialPort != "" {
		cfg.Hardware.SerialPort = opts.SerialPort
	}

	bridge, err := serialbridge.Open(ctx, cfg.Hardware)
	if err != nil {
		return fmt.Errorf("open pin bridge: %w", err)
	}

	defer func() {
		_ = bridge.Close()
	}()

	poller, err := newPoller(bridge, cfg.Kiosk)
	if err != nil {
		return err
	}

	dialer, err := transport.FromConfig(cfg.Transport, "kiosk")
	if err != nil {
		return fmt.Errorf("configure transport: %w", err)
	}

	// The broker may come up later; the first order will dial again.
	publisher := transport.NewRedialingPublisher(dialer)
	if err = publisher.Connect(ctx); err != nil {
		logger.WarnKV(ctx, "Broker unreachable, will retry on publish", "url", cfg.Transport.URL, "error", err)
	}

	defer publisher.Close()

	controller := NewController(
		NewMachine(menu),
		poller,
		NewRenderer(bridge.Display(), cfg.Kiosk.Currency),
		publisher,
		cfg.Transport.Topic,
	)

	logger.InfoKV(ctx, "Kiosk ready", append(version.KV(),
		"products", menu.Len()-1,
		"transport", cfg.Transport.Kind,
		"topic", cfg.Transport.Topic,
	)...)

	return common.RunUntilLost(ctx, bridge, controller.Run)
}

func menuItems(items []config.MenuItem) []order.MenuItem {
	products := make([]order.MenuItem, 0, len(items))
	for _, item := range items {
		products = append(products, order.MenuItem{Name: item.Name, Price: item.Price})
	}

	return products
}

func newPoller(bridge *serialbridge.Bridge, k config.Kiosk) (*input.Poller, error) {
	clk, err := bridge.Input(k.CLKPin, serialbridge.PullUp)
	if err != nil {
		return nil, fmt.Errorf("configure clk line: %w", err)
	}

	dt, err := bridge.Input(k.DTPin, serialbridge.PullUp)
	if err != nil {
		return nil, fmt.Errorf("configure dt line: %w", err)
	}

	sw, err := bridge.Input(k.SWPin, serialbridge.PullUp)
	if err != nil {
		return nil, fmt.Errorf("configure button line: %w", err)
	}

	return input.NewPoller(clk, dt, sw), nil
}
