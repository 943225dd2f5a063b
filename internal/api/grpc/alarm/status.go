package alarm

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/order-kiosk/internal/domain/alarm"
)

// Struct field names of a status message.
const (
	fieldState           = "state"
	fieldRemainingSecond = "remaining_seconds"
	fieldQueuedSeconds   = "queued_seconds"
	fieldDismissedBy     = "last_dismissed_by"
	fieldDismissedAt     = "last_dismissed_at"
)

var (
	// errStatusRequired is returned when decoding a nil message.
	errStatusRequired = errors.New("status message is required")
	// errUnknownState is returned for a state name this build does not know.
	errUnknownState = errors.New("unknown run state")
)

// StatusToStruct encodes a status snapshot.
func StatusToStruct(s domain.Status) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldState:           s.State.String(),
		fieldRemainingSecond: s.RemainingSeconds,
		fieldQueuedSeconds:   s.QueuedSeconds,
	}

	if !s.LastDismissal.IsZero() {
		fields[fieldDismissedBy] = s.LastDismissal.By
		fields[fieldDismissedAt] = s.LastDismissal.At.UTC().Format(time.RFC3339Nano)
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}

	return msg, nil
}

// StatusFromStruct decodes a status snapshot.
func StatusFromStruct(msg *structpb.Struct) (domain.Status, error) {
	if msg == nil {
		return domain.Status{}, errStatusRequired
	}

	fields := msg.GetFields()

	name := fields[fieldState].GetStringValue()

	state, ok := domain.ParseRunState(name)
	if !ok {
		return domain.Status{}, fmt.Errorf("%w: %q", errUnknownState, name)
	}

	status := domain.Status{
		State:            state,
		RemainingSeconds: int(fields[fieldRemainingSecond].GetNumberValue()),
		QueuedSeconds:    int(fields[fieldQueuedSeconds].GetNumberValue()),
	}

	if by := fields[fieldDismissedBy].GetStringValue(); by != "" {
		at, err := time.Parse(time.RFC3339Nano, fields[fieldDismissedAt].GetStringValue())
		if err != nil {
			return domain.Status{}, fmt.Errorf("decode dismissal time: %w", err)
		}

		status.LastDismissal = domain.Dismissal{By: by, At: at}
	}

	return status, nil
}
