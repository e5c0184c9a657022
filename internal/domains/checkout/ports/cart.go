package ports

import (
	"context"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
)

// CartSource is the slice of the cart ledger the orchestrator depends on.
type CartSource interface {
	IsEmpty() bool
	Quote() (cartdomain.Snapshot, cartdomain.Totals)
	Settle(paid cartdomain.Snapshot)
	Persist(ctx context.Context) error
}

// CustomerLookup reports the authenticated customer, if any.
type CustomerLookup interface {
	Customer() (domain.Customer, bool)
}
