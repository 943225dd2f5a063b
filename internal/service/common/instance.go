//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/order-kiosk/internal/logger"
)

// ErrAlreadyRunning is returned when another copy of the controller is running.
var ErrAlreadyRunning = errors.New("another instance is already running")

// EnsureSingleInstance fails when another process runs the same executable.
// Two controllers on one host would drive the same hardware lines.
func EnsureSingleInstance(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	pid, err := findOtherInstance(filepath.Base(self), os.Getpid())
	if err != nil {
		// The scan is best effort; some platforms restrict process listing.
		logger.WarnKV(ctx, "Unable to list processes, skipping instance check", "error", err)

		return nil
	}

	if pid != 0 {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	return nil
}

// findOtherInstance returns the pid of a process named executable other than
// thisProcessID, or zero when there is none.
func findOtherInstance(executable string, thisProcessID int) (int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return 0, err
	}

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return process.Pid(), nil
		}
	}

	return 0, nil
}
