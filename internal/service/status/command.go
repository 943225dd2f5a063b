package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/oshokin/order-kiosk/internal/config"
	domain "github.com/oshokin/order-kiosk/internal/domain/alarm"
	"github.com/oshokin/order-kiosk/internal/logger"
	"github.com/oshokin/order-kiosk/internal/service/common"
)

// Options configures the alarm-status commands.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Address overrides the status API address from config when specified.
	Address string
	// LogLevel overrides the level from the configuration file when set.
	LogLevel string
	// Interval is the dismissal retry delay or the watch polling period.
	Interval time.Duration
}

const (
	// DefaultRetryInterval is the delay between dismissal attempts.
	DefaultRetryInterval = 1 * time.Second
	// DefaultWatchInterval is the polling period of the watch command.
	DefaultWatchInterval = 2 * time.Second
)

// errAddressRequired is returned when neither the flag nor the config names the unit.
var errAddressRequired = errors.New("status address is not configured")

// Show prints the unit status as indented JSON to w.
func Show(ctx context.Context, opts *Options, w io.Writer) error {
	ctx, client, _, err := connect(ctx, opts, "alarm-status")
	if err != nil {
		return err
	}

	// Only errors may reach stdout next to the JSON document.
	ctx = logger.WithMinLevel(ctx, zapcore.ErrorLevel)

	defer func() {
		_ = client.Close()
	}()

	return printStatus(ctx, client, w)
}

// Dismiss asks the unit to cancel its countdown or alert and retries until
// the request is acknowledged or ctx is canceled.
func Dismiss(ctx context.Context, opts *Options) error {
	// Identify current user and hostname, the unit records who dismissed it.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	ctx, client, address, err := connect(ctx, opts, "alarm-status/dismiss")
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Requesting dismissal", "address", address, "actor", actor.String())

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}

	if err = dismissUntilAcknowledged(ctx, client, actor, interval); err != nil {
		return err
	}

	// The acknowledgement only means the flag is raised; report what the unit shows now.
	if st, err := client.GetStatus(ctx); err == nil {
		logger.InfoKV(ctx, "Unit status after dismissal", statusKV(st)...)
	}

	return nil
}

// Watch logs the unit status every interval until ctx is canceled.
func Watch(ctx context.Context, opts *Options) error {
	ctx, client, address, err := connect(ctx, opts, "alarm-status/watch")
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	logger.InfoKV(ctx, "Watching alarm unit", "address", address, "interval", interval.String())

	watch(ctx, client, interval)

	logger.Info(ctx, "Context canceled, exiting")

	return nil
}

// connect loads settings, applies the log level and dials the status API.
// The returned context carries the logger named after the command.
func connect(ctx context.Context, opts *Options, name string) (context.Context, *common.Client, string, error) {
	// Load settings from configuration file.
	cfg, err := loadSettings(opts)
	if err != nil {
		return ctx, nil, "", err
	}

	ctx = common.ConfigureLogging(ctx, cfg.Log, opts.LogLevel, name)

	// Use address from options if provided, otherwise use config.
	address := cfg.Alarm.StatusAddress
	if opts.Address != "" {
		address = opts.Address
	}

	if address == "" {
		return ctx, nil, "", errAddressRequired
	}

	client, err := common.Dial(ctx, address, common.WithCallTimeout(cfg.Transport.Timeout))
	if err != nil {
		return ctx, nil, "", err
	}

	return ctx, client, address, nil
}

// loadSettings reads the config file; an explicit address makes the file optional.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err == nil {
		return cfg, nil
	}

	if opts.Address != "" && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	return nil, fmt.Errorf("load configuration: %w", err)
}

func printStatus(ctx context.Context, client *common.Client, w io.Writer) error {
	msg, err := client.GetStatusMessage(ctx)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	if _, err = fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	return nil
}

func dismissUntilAcknowledged(
	ctx context.Context,
	client *common.Client,
	actor domain.Actor,
	interval time.Duration,
) error {
	// attempt tries once and reports whether the unit acknowledged.
	attempt := func() bool {
		if err := client.Dismiss(ctx, actor); err != nil {
			// Log error but continue retrying for transient failures.
			logger.ErrorKV(ctx, "Dismiss failed", "error", err)
			return false
		}

		logger.Info(ctx, "Dismissal acknowledged")

		return true
	}

	// Attempt immediately before starting retry loop.
	if attempt() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if attempt() {
				return nil
			}
		}
	}
}

func watch(ctx context.Context, client *common.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := client.GetStatus(ctx)
		if err != nil {
			logger.ErrorKV(ctx, "Get status failed", "error", err)
		} else {
			logger.InfoKV(ctx, "Alarm unit status", statusKV(st)...)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func statusKV(st domain.Status) []any {
	kv := []any{
		"state", st.State.String(),
		"remaining_seconds", st.RemainingSeconds,
		"queued_seconds", st.QueuedSeconds,
	}

	if !st.LastDismissal.IsZero() {
		kv = append(kv,
			"last_dismissed_by", st.LastDismissal.By,
			"last_dismissed_at", st.LastDismissal.At.Format(time.RFC3339),
		)
	}

	return kv
}
