package alarm

import (
	"strings"
	"time"
)

// LocalButton names the dismissal button wired to the unit itself.
const LocalButton = "button"

// Actor identifies who dismissed the alarm remotely.
type Actor struct {
	Hostname string
	Username string
}

// String renders the actor as user@host.
func (a Actor) String() string {
	return a.Username + "@" + a.Hostname
}

// ParseActor is the inverse of Actor.String. Host names never contain '@',
// so the last one separates the parts.
func ParseActor(s string) (Actor, bool) {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return Actor{}, false
	}

	return Actor{Hostname: s[at+1:], Username: s[:at]}, true
}

// Dismissal records the most recent cancellation request.
type Dismissal struct {
	// By is an Actor string or LocalButton.
	By string
	// At is when the request was made.
	At time.Time
}

// IsZero reports whether nothing was dismissed yet.
func (d Dismissal) IsZero() bool {
	return d.By == "" && d.At.IsZero()
}
