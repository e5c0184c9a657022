package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItemID    = errors.New("item id is required")
	ErrNegativePrice    = errors.New("unit price must not be negative")
	ErrZeroDelta        = errors.New("quantity delta must not be zero")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrInvalidPromotion = errors.New("promotion code is not valid")
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-line maximum")
)

// MaxLineQuantity caps a single line. Any larger request is refused, never wrapped.
const MaxLineQuantity = 999

// Line is one product in the cart. A line with quantity below one never exists.
type Line struct {
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns unit price times quantity, unrounded.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Promotion is the code currently applied to the cart and its percentage rate.
type Promotion struct {
	Code string
	Rate decimal.Decimal
}

// Cart is keyed by item id and remembers insertion order for display.
type Cart struct {
	lines     map[string]*Line
	order     []string
	promotion Promotion
}

func NewCart() *Cart {
	return &Cart{lines: map[string]*Line{}}
}

// AddItem adds delta to the line's quantity, creating it when absent. A resulting
// quantity of zero or less removes the line. The latest unit price and name win.
func (c *Cart) AddItem(itemID, name string, unitPrice decimal.Decimal, delta int) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrInvalidItemID
	}
	if unitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if delta == 0 {
		return ErrZeroDelta
	}
	line, ok := c.lines[itemID]
	current := 0
	if ok {
		current = line.Quantity
	}
	if delta > MaxLineQuantity-current {
		return ErrQuantityTooLarge
	}
	if !ok {
		if delta < 0 {
			return nil
		}
		c.lines[itemID] = &Line{ItemID: itemID, Name: strings.TrimSpace(name), UnitPrice: unitPrice, Quantity: delta}
		c.order = append(c.order, itemID)
		return nil
	}
	if delta <= -line.Quantity {
		c.remove(itemID)
		return nil
	}
	line.Quantity += delta
	line.UnitPrice = unitPrice
	if name = strings.TrimSpace(name); name != "" {
		line.Name = name
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing line. Zero or below removes it.
func (c *Cart) SetQuantity(itemID string, quantity int) error {
	itemID = strings.TrimSpace(itemID)
	line, ok := c.lines[itemID]
	if quantity <= 0 {
		if ok {
			c.remove(itemID)
		}
		return nil
	}
	if !ok {
		return ErrLineNotFound
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	line.Quantity = quantity
	return nil
}

// Remove deletes the line. Removing an absent line is a no-op.
func (c *Cart) Remove(itemID string) {
	c.remove(strings.TrimSpace(itemID))
}

// Clear empties the cart and drops any promotion.
func (c *Cart) Clear() {
	c.lines = map[string]*Line{}
	c.order = nil
	c.promotion = Promotion{}
}

// ApplyPromotion records the code and rate.
func (c *Cart) ApplyPromotion(code string, rate decimal.Decimal) {
	c.promotion = Promotion{Code: code, Rate: rate}
}

// ResetPromotion drops the applied code and sets the rate to zero.
func (c *Cart) ResetPromotion() {
	c.promotion = Promotion{}
}

func (c *Cart) Promotion() Promotion {
	return c.promotion
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

// Settle removes what was paid for. Each paid quantity is subtracted from the live line,
// so lines added or increased after the quote survive. The promotion is always dropped.
func (c *Cart) Settle(paid []Line) {
	for _, p := range paid {
		line, ok := c.lines[p.ItemID]
		if !ok {
			continue
		}
		if p.Quantity >= line.Quantity {
			c.remove(p.ItemID)
			continue
		}
		line.Quantity -= p.Quantity
	}
	c.promotion = Promotion{}
}

func (c *Cart) Len() int {
	return len(c.order)
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal is the unrounded sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Total())
	}
	return subtotal
}

func (c *Cart) remove(itemID string) {
	if _, ok := c.lines[itemID]; !ok {
		return
	}
	delete(c.lines, itemID)
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
}
