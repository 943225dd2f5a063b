// Package input debounces the rotary encoder and push button.
//
// Window is the shared building block: a minimum spacing between accepted
// events. Rotary accepts a step only when the encoder leaves its detent,
// Button accepts a click only after a release, and Poller combines both
// over hal pins the way the controller loops sample them.
package input
