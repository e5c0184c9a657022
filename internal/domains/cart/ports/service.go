package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
)

// Ledger is the cart container exposed to handlers and the checkout orchestrator.
// Mutations are synchronous and never wait on session operations.
type Ledger interface {
	AddItem(itemID, name string, unitPrice decimal.Decimal, delta int) error
	SetQuantity(itemID string, quantity int) error
	RemoveItem(itemID string)
	Clear()
	// Settle removes the lines of a paid snapshot, keeping later edits.
	Settle(paid domain.Snapshot)
	ApplyPromotion(code string) error
	ComputeTotals() domain.Totals
	Lines() []domain.Line
	ItemCount() int
	IsEmpty() bool
	Snapshot() domain.Snapshot
	// Quote returns a snapshot and the totals computed from it under one lock.
	Quote() (domain.Snapshot, domain.Totals)

	Persist(ctx context.Context) error
	Hydrate(ctx context.Context) error
}
