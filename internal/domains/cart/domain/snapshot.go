package domain

import (
	"github.com/shopspring/decimal"
)

// Snapshot is a detached copy of the cart used for persistence and payment hand-off.
type Snapshot struct {
	Lines     []Line
	Promotion Promotion
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Lines: c.Lines(), Promotion: c.promotion}
}

// IsEmpty reports whether the snapshot carries no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// RestoreCart rebuilds a cart from a snapshot, re-validating every line.
// Lines with quantity below one are dropped.
func RestoreCart(snapshot Snapshot) (*Cart, error) {
	cart := NewCart()
	for _, line := range snapshot.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if err := cart.AddItem(line.ItemID, line.Name, line.UnitPrice, line.Quantity); err != nil {
			return nil, err
		}
	}
	if snapshot.Promotion.Code != "" {
		rate := snapshot.Promotion.Rate
		if rate.IsNegative() {
			rate = decimal.Zero
		}
		cart.ApplyPromotion(snapshot.Promotion.Code, rate)
	}
	return cart, nil
}
