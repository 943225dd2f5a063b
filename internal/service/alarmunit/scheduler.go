package alarmunit

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/order-kiosk/internal/domain/alarm"
	"github.com/oshokin/order-kiosk/internal/domain/order"
	"github.com/oshokin/order-kiosk/internal/logger"
)

// IdleTick is the pause between two checks for new orders while idle.
const IdleTick = 200 * time.Millisecond

// Source yields received order payloads without blocking.
type Source interface {
	Poll() ([]byte, bool)
}

// connectedSource is a Source that can also poll without reconnecting.
// Countdown and alert use it so a broker outage never stalls them.
type connectedSource interface {
	PollConnected() ([]byte, bool)
}

// outcome tells how a countdown or alert ended.
type outcome int

const (
	finished outcome = iota
	cancelled
	stopped
)

// Scheduler owns the alarm unit's state: queued seconds, the running
// countdown and the alert.
type Scheduler struct {
	source  Source
	display *Multiplexer
	alerter *Alerter
	flag    *Flag

	mu          sync.Mutex
	status      alarm.Status
	requestedBy string
}

// NewScheduler wires the scheduler to its input and outputs. flag is the
// one the button interrupt raises.
func NewScheduler(source Source, display *Multiplexer, alerter *Alerter, flag *Flag) *Scheduler {
	return &Scheduler{
		source:  source,
		display: display,
		alerter: alerter,
		flag:    flag,
	}
}

// Status returns a snapshot of the current state.
func (s *Scheduler) Status() alarm.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Enqueue adds seconds to the time waiting for the next countdown.
func (s *Scheduler) Enqueue(seconds int) {
	if seconds <= 0 {
		return
	}

	s.mu.Lock()
	s.status.QueuedSeconds += seconds
	s.mu.Unlock()
}

// Dismiss requests cancellation on behalf of by, exactly like the button.
// It has no effect while idle.
func (s *Scheduler) Dismiss(by string) {
	s.mu.Lock()
	s.requestedBy = by
	s.mu.Unlock()

	s.flag.Raise()
}

// Run processes orders until ctx is done. The display and every actuator
// are off when it returns.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.display.Blank()
	defer s.alerter.Off()

	for {
		if ctx.Err() != nil {
			return nil
		}

		s.drain(ctx, s.source.Poll)

		if seconds := s.takeQueued(); seconds > 0 {
			s.cycle(ctx, seconds)

			// A fresh countdown starts at once for anything queued meanwhile.
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(IdleTick):
		}
	}
}

// cycle runs one countdown and, unless it was cancelled, the alert.
func (s *Scheduler) cycle(ctx context.Context, seconds int) {
	logger.InfoKV(ctx, "Countdown started", "seconds", seconds)

	result := s.countdown(ctx, seconds)
	if result == finished {
		logger.Info(ctx, "Countdown finished, alerting")

		s.setPhase(alarm.Alerting, 0)
		s.alerter.Run(ctx, s.flag, func() { s.drain(ctx, s.busyPoll) })

		if s.flag.Raised() {
			result = cancelled
		} else {
			result = stopped
		}
	}

	if result == cancelled {
		d := s.recordDismissal()
		logger.InfoKV(ctx, "Dismissed", "by", d.By)
	}

	s.flag.Reset()
	s.setPhase(alarm.Idle, 0)
}

// countdown shows every value from total down to 0 for one second each,
// checking for cancellation after every refresh cycle.
func (s *Scheduler) countdown(ctx context.Context, total int) outcome {
	s.flag.Reset()

	s.mu.Lock()
	s.requestedBy = ""
	s.mu.Unlock()

	defer s.display.Blank()

	for remaining := total; remaining >= 0; remaining-- {
		s.setPhase(alarm.CountingDown, remaining)
		s.drain(ctx, s.busyPoll)

		text := FormatClock(remaining)

		for start := time.Now(); time.Since(start) < time.Second; {
			s.display.Show(text)

			if s.flag.Raised() {
				return cancelled
			}

			if ctx.Err() != nil {
				return stopped
			}
		}
	}

	return finished
}

// busyPoll reads payloads during countdown and alert without dialing.
func (s *Scheduler) busyPoll() ([]byte, bool) {
	if source, ok := s.source.(connectedSource); ok {
		return source.PollConnected()
	}

	return s.source.Poll()
}

// drain moves every payload poll yields into the queue.
func (s *Scheduler) drain(ctx context.Context, poll func() ([]byte, bool)) {
	for {
		payload, ok := poll()
		if !ok {
			return
		}

		items := order.ParsePayload(payload)
		if len(items) == 0 {
			logger.DebugKV(ctx, "Ignoring empty order", "payload", string(payload))

			continue
		}

		seconds := alarm.SecondsFor(payload)
		s.Enqueue(seconds)

		logger.InfoKV(ctx, "Order received", "items", items, "seconds", seconds, "queued", s.Status().QueuedSeconds)
	}
}

func (s *Scheduler) takeQueued() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seconds := s.status.QueuedSeconds
	s.status.QueuedSeconds = 0

	return seconds
}

func (s *Scheduler) setPhase(state alarm.RunState, remaining int) {
	s.mu.Lock()
	s.status.State = state
	s.status.RemainingSeconds = remaining
	s.mu.Unlock()
}

func (s *Scheduler) recordDismissal() alarm.Dismissal {
	s.mu.Lock()
	defer s.mu.Unlock()

	by := s.requestedBy
	if by == "" {
		by = alarm.LocalButton
	}

	s.requestedBy = ""
	s.status.LastDismissal = alarm.Dismissal{By: by, At: time.Now()}

	return s.status.LastDismissal
}
