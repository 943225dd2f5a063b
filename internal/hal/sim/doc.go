// Package sim provides in-memory hal devices that record what the
// controllers do to them. Tests drive inputs with Pin.Drive and inspect
// the recorded display calls, tones and segment pictures.
package sim
