package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FinishLabel is the name of the sentinel entry that ends the order.
const FinishLabel = "Finish order"

// payloadSeparator joins item names in a published order.
const payloadSeparator = ", "

var (
	// errSentinelNotOrderable is returned when the finish entry is added to an order.
	errSentinelNotOrderable = errors.New("finish entry is not orderable")
	// errNameHasSeparator is returned for a product name that would split in a payload.
	errNameHasSeparator = errors.New("product name contains the payload separator")
)

// MenuItem is a product shown on the menu screen.
// Price holds a decimal string; it is empty only for the finish sentinel.
type MenuItem struct {
	Name  string
	Price string
}

// IsFinish reports whether the item is the finish sentinel.
func (m MenuItem) IsFinish() bool {
	return m.Name == FinishLabel && m.Price == ""
}

// Amount parses the item price.
func (m MenuItem) Amount() (decimal.Decimal, error) {
	if m.IsFinish() {
		return decimal.Zero, errSentinelNotOrderable
	}

	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price of %q: %w", m.Name, err)
	}

	return price, nil
}

// Menu is the immutable list of orderable products followed by the sentinel.
type Menu struct {
	items []MenuItem
}

// NewMenu validates every product and appends the finish sentinel.
func NewMenu(products []MenuItem) (*Menu, error) {
	items := make([]MenuItem, 0, len(products)+1)

	for _, product := range products {
		if _, err := product.Amount(); err != nil {
			return nil, err
		}

		if strings.Contains(product.Name, ",") {
			return nil, fmt.Errorf("%w: %q", errNameHasSeparator, product.Name)
		}

		items = append(items, product)
	}

	items = append(items, MenuItem{Name: FinishLabel})

	return &Menu{items: items}, nil
}

// Len returns the number of entries including the sentinel.
func (m *Menu) Len() int {
	return len(m.items)
}

// At returns the entry at index i.
func (m *Menu) At(i int) MenuItem {
	return m.items[i]
}

// Items returns a copy of all entries including the sentinel.
func (m *Menu) Items() []MenuItem {
	return append([]MenuItem(nil), m.items...)
}

// Line is one ordered product.
type Line struct {
	Name  string
	Price decimal.Decimal
}

// Order accumulates ordered products and keeps the running total.
// The zero value is an empty order.
type Order struct {
	lines []Line
	total decimal.Decimal
}

// Add appends the item and adds its price to the total.
func (o *Order) Add(item MenuItem) error {
	price, err := item.Amount()
	if err != nil {
		return err
	}

	o.lines = append(o.lines, Line{Name: item.Name, Price: price})
	o.total = o.total.Add(price)

	return nil
}

// Clear empties the order and resets the total to zero.
func (o *Order) Clear() {
	o.lines = nil
	o.total = decimal.Zero
}

// Len returns the number of ordered products.
func (o *Order) Len() int {
	return len(o.lines)
}

// IsEmpty reports whether nothing has been ordered.
func (o *Order) IsEmpty() bool {
	return len(o.lines) == 0
}

// Total returns the sum of all line prices.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// Lines returns a copy of the ordered products.
func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

// Names returns the ordered product names in order of addition.
func (o *Order) Names() []string {
	names := make([]string, 0, len(o.lines))
	for _, line := range o.lines {
		names = append(names, line.Name)
	}

	return names
}

// Payload encodes the order for the message channel: names joined by ", ".
func (o *Order) Payload() []byte {
	return []byte(strings.Join(o.Names(), payloadSeparator))
}

// ParsePayload splits a published order back into item names.
// Surrounding whitespace is trimmed and empty entries are dropped.
func ParsePayload(payload []byte) []string {
	parts := strings.Split(string(payload), ",")
	names := make([]string, 0, len(parts))

	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}

	return names
}
