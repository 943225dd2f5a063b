// Package version exposes build metadata shared by order-kiosk, alarm-unit
// and alarm-status.
//
// Version, Commit and BuildTime are injected with -ldflags -X and default to
// local build values.
package version
