package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
)

// Service exposes checkout use cases to adapters.
type Service interface {
	BeginCheckout(ctx context.Context) (*domain.Receipt, error)
	InProgress() bool
	Receipts(ctx context.Context) ([]*ReceiptProjection, error)
	Receipt(ctx context.Context, handoffID uuid.UUID) (*ReceiptProjection, error)
}
