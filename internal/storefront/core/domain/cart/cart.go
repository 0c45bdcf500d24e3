// Package cart holds the shopping cart state for a single shopper session.
//
// A Cart is a plain accumulator: every operation applies immediately and
// returns a Change describing what happened. It is not safe for concurrent
// use; callers that share a cart across goroutines must serialize access
// (see the session package).
package cart

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
)

// ErrInvalidQuantity is returned by SetQuantity for negative quantities.
var ErrInvalidQuantity = errors.New("cart: quantity must not be negative")

// Line is one product in the cart. Quantity is always >= 1.
type Line struct {
	Product  entity.Product
	Quantity int
}

// Points is the karma earned by this line.
func (l Line) Points() int {
	return l.Product.KarmaPoints * l.Quantity
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order, at most one per product ID.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the line for p.ID, or appends a new line with
// quantity 1. Points always grow by exactly one unit of the line's karma.
func (c *Cart) AddItem(p entity.Product) Change {
	if i := c.index(p.ID); i >= 0 {
		l := &c.lines[i]
		l.Quantity++
		return Change{
			Action:         ActionAdd,
			ProductID:      p.ID,
			QuantityBefore: l.Quantity - 1,
			QuantityAfter:  l.Quantity,
			PointsDelta:    l.Product.KarmaPoints,
			Applied:        true,
		}
	}

	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
	return Change{
		Action:        ActionAdd,
		ProductID:     p.ID,
		QuantityAfter: 1,
		PointsDelta:   p.KarmaPoints,
		Applied:       true,
	}
}

// RemoveItem drops the whole line for productID. Absent IDs are a no-op.
func (c *Cart) RemoveItem(productID string) Change {
	i := c.index(productID)
	if i < 0 {
		return Change{Action: ActionRemove, ProductID: productID}
	}

	removed := c.lines[i]
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return Change{
		Action:         ActionRemove,
		ProductID:      productID,
		QuantityBefore: removed.Quantity,
		PointsDelta:    -removed.Points(),
		Applied:        true,
	}
}

// SetQuantity sets the line quantity. Zero removes the line, absent IDs are
// a no-op, and negative quantities are rejected without touching the cart.
func (c *Cart) SetQuantity(productID string, quantity int) (Change, error) {
	if quantity < 0 {
		return Change{}, errors.Wrapf(ErrInvalidQuantity, "set %q to %d", productID, quantity)
	}
	if quantity == 0 {
		ch := c.RemoveItem(productID)
		ch.Action = ActionSetQuantity
		return ch, nil
	}

	i := c.index(productID)
	if i < 0 {
		return Change{Action: ActionSetQuantity, ProductID: productID}, nil
	}

	l := &c.lines[i]
	before := l.Quantity
	l.Quantity = quantity
	return Change{
		Action:         ActionSetQuantity,
		ProductID:      productID,
		QuantityBefore: before,
		QuantityAfter:  quantity,
		PointsDelta:    (quantity - before) * l.Product.KarmaPoints,
		Applied:        true,
	}, nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() Change {
	ch := Change{
		Action:         ActionClear,
		QuantityBefore: c.TotalItemCount(),
		PointsDelta:    -c.TotalPoints(),
		Applied:        true,
	}
	c.lines = nil
	return ch
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) TotalItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPoints is derived from the lines on every read, so it cannot drift
// from the sum of karma times quantity.
func (c *Cart) TotalPoints() int {
	n := 0
	for _, l := range c.lines {
		n += l.Points()
	}
	return n
}

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
