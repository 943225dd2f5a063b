// Package hal declares the hardware the two controllers drive: digital pins,
// the PWM buzzer, the 7-segment bus, indicator outputs and the kiosk's text
// display.
//
// Concrete backends live in subpackages: serialbridge talks to a pin bridge
// microcontroller over a serial line, sim keeps everything in memory.
package hal
