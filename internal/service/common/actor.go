//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	domain "github.com/oshokin/order-kiosk/internal/domain/alarm"
)

// DetectActor gathers host and user information recorded with a remote dismissal.
func DetectActor() (domain.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return domain.Actor{}, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return domain.Actor{}, fmt.Errorf("current user: %w", err)
	}

	return domain.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
