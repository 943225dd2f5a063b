// Package alarm contains core domain types of the countdown/alarm unit.
//
// It defines RunState (idle, counting down, alerting), the Status snapshot
// reported over the status API, the Actor and Dismissal records of who
// cancelled a countdown, and the rule that turns an order payload into
// countdown seconds.
package alarm
