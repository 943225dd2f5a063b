// Package alarmunit runs the countdown/alarm unit.
//
// The Scheduler turns received orders into queued seconds, counts them down
// on the 7-segment display through the Multiplexer and then runs the
// Alerter until someone dismisses it. Dismissal arrives through Flag, which
// the button interrupt and the status API both raise.
package alarmunit
