// Package config defines the controller settings and provides helpers to
// load, validate and save them in YAML format.
//
// One file layout serves both devices: the kiosk reads the transport, kiosk
// and hardware sections, the alarm unit reads transport, alarm and hardware.
// Validate fills defaults that reproduce the reference wiring and menu.
package config
