package kiosk

import (
	"fmt"
	"strings"

	"github.com/oshokin/order-kiosk/internal/hal"
)

// Screen geometry and palette of the 320x240 panel.
const (
	marginX     = 10
	priceX      = 160
	menuTop     = 50
	menuStep    = 35
	ruleOffset  = 20
	lineStep    = 20
	yesX        = 50
	noX         = 130
	summaryRows = 5
)

var (
	white  = hal.RGB(255, 255, 255)
	black  = hal.RGB(0, 0, 0)
	cyan   = hal.RGB(0, 255, 255)
	yellow = hal.RGB(255, 255, 0)
	green  = hal.RGB(0, 255, 0)
	red    = hal.RGB(255, 0, 0)
	grey   = hal.RGB(100, 100, 100)

	rule = strings.Repeat("-", 29)
)

// Renderer draws the kiosk screens. Every call redraws the whole screen.
type Renderer struct {
	display  hal.Display
	currency string
}

// NewRenderer draws on display, printing currency after prices.
func NewRenderer(display hal.Display, currency string) *Renderer {
	return &Renderer{display: display, currency: currency}
}

// Render draws the screen described by v.
func (r *Renderer) Render(v View) {
	r.clear()

	switch v.Screen {
	case Welcome:
		r.welcome()
	case Menu:
		r.menu(v)
	case ConfirmAdd:
		r.confirmAdd(v)
	case ConfirmEmpty:
		r.confirmEmpty(v)
	case ConfirmSubmit:
		r.confirmSubmit(v)
	case Sent:
		r.sent(v)
	}
}

func (r *Renderer) clear() {
	r.display.SetColors(white, black)
	r.display.Clear()
}

func (r *Renderer) text(x, y int, s string) {
	r.display.SetPosition(x, y)
	r.display.Print(s)
}

func (r *Renderer) price(p string) string {
	return p + " " + r.currency
}

func (r *Renderer) welcome() {
	r.display.SetFont(hal.FontLarge)
	r.text(30, 140, "Welcome!")
}

func (r *Renderer) menu(v View) {
	r.display.SetFont(hal.FontMedium)
	r.display.SetColors(cyan, black)
	r.text(marginX, 20, "Products:")

	for i, item := range v.Menu {
		y := menuTop + i*menuStep

		if i == v.Selected {
			r.display.SetColors(black, yellow)
		} else {
			r.display.SetColors(white, black)
		}

		r.text(marginX, y, item.Name)

		if item.IsFinish() {
			r.text(priceX, y, "->")
		} else {
			r.text(priceX, y, r.price(item.Price))
		}

		r.display.SetColors(grey, black)
		r.text(marginX, y+ruleOffset, rule)
	}
}

func (r *Renderer) confirmAdd(v View) {
	r.display.SetFont(hal.FontMedium)
	r.display.SetColors(white, black)
	r.text(marginX, 90, "Add to order?")
	r.text(marginX, 110, fmt.Sprintf("%s (%s)", v.Pending.Name, r.price(v.Pending.Price)))
	r.choice(v.Confirm, 160)
}

func (r *Renderer) confirmEmpty(v View) {
	r.display.SetFont(hal.FontMedium)
	r.display.SetColors(yellow, black)
	r.text(30, 110, "The order is empty.")
	r.text(20, 140, "Continue ordering?")
	r.choice(v.Confirm, 180)
}

func (r *Renderer) confirmSubmit(v View) {
	r.display.SetFont(hal.FontMedium)
	r.display.SetColors(white, black)
	r.text(marginX, 90, "Are you sure you want")
	r.text(marginX, 110, "to confirm")
	r.text(marginX, 130, "the order?")
	r.choice(v.Confirm, 180)
}

// choice draws the YES/NO buttons at row y and the caret under the highlighted one.
func (r *Renderer) choice(confirm, y int) {
	if confirm == ChoiceYes {
		r.display.SetColors(black, green)
	} else {
		r.display.SetColors(white, black)
	}

	r.text(yesX, y, " YES ")

	if confirm == ChoiceNo {
		r.display.SetColors(black, red)
	} else {
		r.display.SetColors(white, black)
	}

	r.text(noX, y, " NO ")

	r.display.SetColors(white, black)

	caretX := yesX
	if confirm == ChoiceNo {
		caretX = noX
	}

	r.text(caretX, y+25, "^")
}

func (r *Renderer) sent(v View) {
	r.display.SetFont(hal.FontMedium)
	r.display.SetColors(green, black)
	r.text(marginX, 90, "Order sent!")
	r.text(marginX, 110, fmt.Sprintf("Items: %d", len(v.Lines)))
	r.text(marginX, 130, "Total: "+r.price(v.Total.StringFixed(2)))
	r.text(marginX, 155, "You ordered:")

	y := 180

	for _, line := range v.Lines[:min(len(v.Lines), summaryRows)] {
		r.text(20, y, "- "+line.Name)
		y += lineStep
	}

	if extra := len(v.Lines) - summaryRows; extra > 0 {
		r.text(20, y, fmt.Sprintf("+ %d...", extra))
	}
}
