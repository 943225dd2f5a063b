package alarmunit

import (
	"context"
	"time"

	"github.com/oshokin/order-kiosk/internal/hal"
)

const (
	// AlertPhase is the length of one blink phase.
	AlertPhase = 500 * time.Millisecond
	// CancelPoll is how often the alert checks for dismissal.
	CancelPoll = 20 * time.Millisecond
	// ToneHz is the alert tone frequency.
	ToneHz = 2000
	// ToneDuty is a 50% duty cycle on the 16-bit PWM scale.
	ToneDuty = 32768
)

// Alerter blinks the indicators and sounds the buzzer.
type Alerter struct {
	indicators hal.Indicators
	buzzer     hal.Buzzer
}

// NewAlerter drives the given outputs.
func NewAlerter(indicators hal.Indicators, buzzer hal.Buzzer) *Alerter {
	return &Alerter{indicators: indicators, buzzer: buzzer}
}

// Run alternates two phases until flag is raised or ctx is done: even
// indicators with the tone, then odd indicators in silence. every is called
// once per phase. Everything is switched off on return.
func (a *Alerter) Run(ctx context.Context, flag *Flag, every func()) {
	defer a.Off()

	for phase := 0; ; phase = 1 - phase {
		if phase == 0 {
			a.buzzer.SetTone(ToneHz, ToneDuty)
		} else {
			a.buzzer.SetTone(ToneHz, 0)
		}

		for i := range a.indicators.Len() {
			a.indicators.SetOutput(i, i%2 == phase)
		}

		if every != nil {
			every()
		}

		if !waitPhase(ctx, flag) {
			return
		}
	}
}

// Off silences the buzzer and switches every indicator off.
func (a *Alerter) Off() {
	a.buzzer.SetTone(ToneHz, 0)

	for i := range a.indicators.Len() {
		a.indicators.SetOutput(i, false)
	}
}

// waitPhase sleeps for one phase in CancelPoll steps. It returns false as
// soon as the flag is raised or ctx is done.
func waitPhase(ctx context.Context, flag *Flag) bool {
	deadline := time.Now().Add(AlertPhase)

	for time.Now().Before(deadline) {
		if flag.Raised() || ctx.Err() != nil {
			return false
		}

		time.Sleep(CancelPoll)
	}

	return !flag.Raised() && ctx.Err() == nil
}
