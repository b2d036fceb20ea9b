package cart

import (
	"github.com/shopspring/decimal"

	"millex/internal"
)

// Cart accumulates order lines for a single session. Lines from different
// catalog lines may coexist; the key is the product code. A cart is owned by
// exactly one session and is not safe for concurrent use on its own.
type Cart struct {
	lines map[string]*internal.CartLine
	order []string
}

func New() *Cart {
	return &Cart{lines: map[string]*internal.CartLine{}}
}

// SetQuantity replaces the line for code with the given snapshot and quantity.
// Quantity zero removes the line; a negative quantity is rejected before any
// state changes. Repeated calls with the same arguments are idempotent: the
// last call wins, quantities never accumulate.
func (c *Cart) SetQuantity(code string, snapshot internal.LineSnapshot, quantity int) error {
	if quantity < 0 {
		return internal.ErrNegativeQuantity
	}
	if quantity == 0 {
		c.remove(code)
		return nil
	}

	if existing, ok := c.lines[code]; ok {
		existing.Name = snapshot.Name
		existing.Price = snapshot.Price
		existing.Quantity = quantity
		return nil
	}

	c.lines[code] = &internal.CartLine{
		Code:     code,
		Name:     snapshot.Name,
		Price:    snapshot.Price,
		Quantity: quantity,
	}
	c.order = append(c.order, code)
	return nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = map[string]*internal.CartLine{}
	c.order = nil
}

// Len reports the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns the cart lines in insertion order. Overwriting a line keeps
// its original position; removing and re-adding moves it to the end.
func (c *Cart) Lines() []internal.CartLine {
	out := make([]internal.CartLine, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, *c.lines[code])
	}
	return out
}

// Total is recomputed on every call, never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, code := range c.order {
		total = total.Add(c.lines[code].Subtotal())
	}
	return total
}

func (c *Cart) remove(code string) {
	if _, ok := c.lines[code]; !ok {
		return
	}
	delete(c.lines, code)
	for i, existing := range c.order {
		if existing == code {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
