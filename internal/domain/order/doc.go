// Package order contains the kiosk's domain types: menu entries, the menu
// with its "Finish order" sentinel, and the order being accumulated.
//
// Prices are decimals so the running total stays exact. The package also
// owns the wire format shared by both controllers: ordered names joined by
// ", " on the way out and split, trimmed and filtered on the way in.
package order
