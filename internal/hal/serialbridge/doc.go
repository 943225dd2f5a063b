// Package serialbridge drives the controllers' pins through a pin bridge
// microcontroller on a serial line.
//
// The protocol is line oriented text. The host configures inputs with
// "I <pin> <up|down>", writes outputs with "O <pin> <0|1>", sets a PWM tone
// with "T <pin> <freq> <duty>" and draws with "G" commands (C colors,
// P position, F font, W text, E erase). The bridge reports input levels
// with "L <pin> <0|1>" whenever they change.
package serialbridge
