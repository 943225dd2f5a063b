package kiosk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/order-kiosk/internal/domain/order"
	"github.com/oshokin/order-kiosk/internal/hal/sim"
	"github.com/oshokin/order-kiosk/internal/input"
)

func TestRenderer_RedrawIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t)
	display := new(sim.Display)
	r := NewRenderer(display, "KM")

	for _, ev := range []input.Event{{}, click, cw, click, cw} {
		feed(t, m, ev)

		display.Reset()
		r.Render(m.View())
		first := display.Calls()

		display.Reset()
		r.Render(m.View())
		require.Equal(t, first, display.Calls())
		require.Equal(t, "clear", first[1])
	}
}

func TestRenderer_Screens(t *testing.T) {
	t.Parallel()

	menu := []order.MenuItem{{Name: "Pizza", Price: "5"}, {Name: order.FinishLabel}}

	tests := []struct {
		name string
		view View
		want []string
	}{
		{
			name: "welcome",
			view: View{Screen: Welcome},
			want: []string{"Welcome!"},
		},
		{
			name: "menu",
			view: View{Screen: Menu, Menu: menu, Selected: 1},
			want: []string{
				"Products:",
				"Pizza", "5 KM", "-----------------------------",
				order.FinishLabel, "->", "-----------------------------",
			},
		},
		{
			name: "confirm add",
			view: View{Screen: ConfirmAdd, Pending: menu[0], Confirm: ChoiceNo},
			want: []string{"Add to order?", "Pizza (5 KM)", " YES ", " NO ", "^"},
		},
		{
			name: "confirm empty",
			view: View{Screen: ConfirmEmpty},
			want: []string{"The order is empty.", "Continue ordering?", " YES ", " NO ", "^"},
		},
		{
			name: "confirm submit",
			view: View{Screen: ConfirmSubmit},
			want: []string{"Are you sure you want", "to confirm", "the order?", " YES ", " NO ", "^"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			display := new(sim.Display)
			NewRenderer(display, "KM").Render(tt.view)
			require.Equal(t, tt.want, display.Printed())
		})
	}
}

func TestRenderer_CaretFollowsChoice(t *testing.T) {
	t.Parallel()

	display := new(sim.Display)
	r := NewRenderer(display, "KM")

	r.Render(View{Screen: ConfirmSubmit, Confirm: ChoiceYes})
	require.Contains(t, display.Calls(), "pos 50 205")

	display.Reset()
	r.Render(View{Screen: ConfirmSubmit, Confirm: ChoiceNo})
	require.Contains(t, display.Calls(), "pos 130 205")
	require.NotContains(t, display.Calls(), "pos 50 205")
}

func TestRenderer_SentSummary(t *testing.T) {
	t.Parallel()

	names := []string{"Pizza", "Sok", "Kolac", "Sok", "Pizza", "Sendvic", "Sok"}
	lines := make([]order.Line, 0, len(names))
	total := decimal.Zero

	for _, name := range names {
		price := decimal.RequireFromString("2.5")
		lines = append(lines, order.Line{Name: name, Price: price})
		total = total.Add(price)
	}

	display := new(sim.Display)
	NewRenderer(display, "KM").Render(View{Screen: Sent, Lines: lines, Total: total})

	require.Equal(t, []string{
		"Order sent!",
		"Items: 7",
		"Total: 17.50 KM",
		"You ordered:",
		"- Pizza", "- Sok", "- Kolac", "- Sok", "- Pizza",
		"+ 2...",
	}, display.Printed())
}
