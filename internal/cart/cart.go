// Package cart holds the view-local shopping cart: an ordered collection of
// lines keyed by menu item id. The cart is ephemeral; it lives and dies with
// the view that owns it.
package cart

import (
	"github.com/shopspring/decimal"

	"cuisineberg/internal/domain"
)

type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of an existing line for the same item id, or
// appends a new line with quantity 1. It never fails.
func (c *Cart) Add(item domain.MenuItem) {
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, domain.CartLine{Item: item, Quantity: 1})
}

// Remove decrements the line for itemID, deleting it when the quantity hits
// zero. Removing an absent id is a no-op. Insertion order of the remaining
// lines is preserved.
func (c *Cart) Remove(itemID string) {
	for i := range c.lines {
		if c.lines[i].Item.ID != itemID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
			return
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
}

// Total is recomputed from the lines on every call, never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities across all lines. Zero means the cart
// surface is hidden entirely.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Clear() {
	c.lines = nil
}
