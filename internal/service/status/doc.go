// Package status implements the alarm-status CLI: a one-shot JSON status
// print, a remote dismissal retried until the unit acknowledges it, and a
// watch loop that logs the unit status at a fixed interval.
package status
