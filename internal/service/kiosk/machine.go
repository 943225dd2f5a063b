package kiosk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oshokin/order-kiosk/internal/domain/order"
	"github.com/oshokin/order-kiosk/internal/input"
)

// Screen identifies the active kiosk screen.
type Screen int

const (
	// Welcome waits for the first click.
	Welcome Screen = iota
	// Menu lists the products and the finish entry.
	Menu
	// ConfirmAdd asks whether to add the pending product.
	ConfirmAdd
	// Sent shows the summary of a submitted order.
	Sent
	// ConfirmEmpty offers to keep ordering when finishing an empty order.
	ConfirmEmpty
	// ConfirmSubmit asks for the final confirmation before publishing.
	ConfirmSubmit
)

// String returns the screen name used in logs.
func (s Screen) String() string {
	switch s {
	case Welcome:
		return "welcome"
	case Menu:
		return "menu"
	case ConfirmAdd:
		return "confirm_add"
	case Sent:
		return "sent"
	case ConfirmEmpty:
		return "confirm_empty"
	case ConfirmSubmit:
		return "confirm_submit"
	default:
		return "unknown"
	}
}

const (
	// ChoiceYes is the confirm index of the YES button.
	ChoiceYes = 0
	// ChoiceNo is the confirm index of the NO button.
	ChoiceNo = 1
)

// Effect tells the controller what to do after an event.
type Effect struct {
	// Redraw is set whenever the visible state changed.
	Redraw bool
	// Publish holds the order payload to send, if any.
	Publish []byte
}

// View is a read-only snapshot of everything a screen shows.
type View struct {
	Screen   Screen
	Menu     []order.MenuItem
	Selected int
	Confirm  int
	Pending  order.MenuItem
	Lines    []order.Line
	Total    decimal.Decimal
}

// Machine is the menu/order state machine. It is owned by a single loop
// and performs no I/O: Handle returns the effects to carry out.
type Machine struct {
	menu *order.Menu

	screen   Screen
	selected int
	confirm  int
	pending  order.MenuItem
	order    order.Order
}

// NewMachine starts on the welcome screen with an empty order.
func NewMachine(menu *order.Menu) *Machine {
	return &Machine{menu: menu}
}

// Screen returns the active screen.
func (m *Machine) Screen() Screen {
	return m.screen
}

// Selected returns the highlighted menu row.
func (m *Machine) Selected() int {
	return m.selected
}

// Confirm returns the highlighted confirmation button.
func (m *Machine) Confirm() int {
	return m.confirm
}

// Order returns the order being accumulated. Callers must not modify it.
func (m *Machine) Order() *order.Order {
	return &m.order
}

// View returns a snapshot for rendering.
func (m *Machine) View() View {
	return View{
		Screen:   m.screen,
		Menu:     m.menu.Items(),
		Selected: m.selected,
		Confirm:  m.confirm,
		Pending:  m.pending,
		Lines:    m.order.Lines(),
		Total:    m.order.Total(),
	}
}

// Handle applies one input event.
func (m *Machine) Handle(ev input.Event) (Effect, error) {
	switch ev.Kind {
	case input.Rotate:
		return m.rotate(ev.Step), nil
	case input.Click:
		return m.click()
	default:
		return Effect{}, nil
	}
}

func (m *Machine) rotate(step int) Effect {
	switch m.screen {
	case Menu:
		next := min(max(m.selected+step, 0), m.menu.Len()-1)
		if next == m.selected {
			return Effect{}
		}

		m.selected = next

		return Effect{Redraw: true}

	case ConfirmAdd, ConfirmEmpty, ConfirmSubmit:
		next := ChoiceYes
		if step > 0 {
			next = ChoiceNo
		}

		if next == m.confirm {
			return Effect{}
		}

		m.confirm = next

		return Effect{Redraw: true}

	default:
		return Effect{}
	}
}

func (m *Machine) click() (Effect, error) {
	switch m.screen {
	case Welcome:
		m.selected = 0
		m.enter(Menu)

	case Menu:
		item := m.menu.At(m.selected)

		switch {
		case !item.IsFinish():
			m.pending = item
			m.enter(ConfirmAdd)
		case m.order.IsEmpty():
			m.enter(ConfirmEmpty)
		default:
			m.enter(ConfirmSubmit)
		}

	case ConfirmAdd:
		yes := m.confirm == ChoiceYes
		pending := m.pending
		m.pending = order.MenuItem{}
		m.enter(Menu)

		if yes {
			if err := m.order.Add(pending); err != nil {
				return Effect{Redraw: true}, fmt.Errorf("add %q to order: %w", pending.Name, err)
			}
		}

	case ConfirmEmpty:
		if m.confirm == ChoiceYes {
			m.enter(Menu)
		} else {
			m.enter(Welcome)
		}

	case ConfirmSubmit:
		if m.confirm != ChoiceYes {
			// Declining goes back to the welcome screen; the order is kept
			// for the next visit to the finish entry.
			m.enter(Welcome)

			return Effect{Redraw: true}, nil
		}

		payload := m.order.Payload()
		m.enter(Sent)

		return Effect{Redraw: true, Publish: payload}, nil

	case Sent:
		m.restart()
	}

	return Effect{Redraw: true}, nil
}

// enter switches screens; every screen starts with YES highlighted.
func (m *Machine) enter(s Screen) {
	m.screen = s
	m.confirm = ChoiceYes
}

func (m *Machine) restart() {
	m.order.Clear()
	m.selected = 0
	m.pending = order.MenuItem{}
	m.enter(Welcome)
}
