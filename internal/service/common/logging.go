//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"

	"github.com/oshokin/order-kiosk/internal/config"
	"github.com/oshokin/order-kiosk/internal/logger"
)

// ConfigureLogging applies the log settings and returns ctx carrying the new
// global logger under name. A non-empty override replaces the configured level.
func ConfigureLogging(ctx context.Context, cfg config.Log, override, name string) context.Context {
	level := cfg.Level
	if override != "" {
		level = override
	}

	sink := logger.FileSink{
		Path:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	}

	ok := logger.Configure(level, sink)
	ctx = logger.ToContext(ctx, logger.Logger().Named(name))

	if !ok {
		logger.WarnKV(ctx, "Unknown log level, using info", "level", level)
	}

	return ctx
}
