package alarm

import "github.com/oshokin/order-kiosk/internal/domain/order"

// SecondsPerItem is the countdown time added for every ordered item.
const SecondsPerItem = 10

// RunState is the phase of the alarm unit.
type RunState int

const (
	// Idle waits for orders.
	Idle RunState = iota
	// CountingDown shows the remaining time on the 7-segment display.
	CountingDown
	// Alerting blinks the indicators and sounds the buzzer until dismissed.
	Alerting
)

// String returns the lower-case name used in logs and the status API.
func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case CountingDown:
		return "counting_down"
	case Alerting:
		return "alerting"
	default:
		return "unknown"
	}
}

// ParseRunState is the inverse of RunState.String.
func ParseRunState(s string) (RunState, bool) {
	for _, state := range []RunState{Idle, CountingDown, Alerting} {
		if state.String() == s {
			return state, true
		}
	}

	return Idle, false
}

// Status is a point-in-time snapshot of the alarm unit.
type Status struct {
	// State is the current phase.
	State RunState
	// RemainingSeconds is the countdown value; zero unless CountingDown.
	RemainingSeconds int
	// QueuedSeconds is the time waiting for the next countdown.
	QueuedSeconds int
	// LastDismissal is the most recent cancellation request, if any.
	LastDismissal Dismissal
}

// SecondsFor returns the countdown time requested by one order payload.
// Malformed or empty payloads request nothing.
func SecondsFor(payload []byte) int {
	return SecondsPerItem * len(order.ParsePayload(payload))
}
