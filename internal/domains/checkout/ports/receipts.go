package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/shared/projection"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptProjection is a receipt plus persistence metadata.
type ReceiptProjection = projection.Projection[*domain.Receipt]

// ReceiptRepository stores accepted hand-offs.
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *domain.Receipt) (*ReceiptProjection, error)
	GetByHandoffID(ctx context.Context, id uuid.UUID) (*ReceiptProjection, error)
	List(ctx context.Context) ([]*ReceiptProjection, error)
}

// EventPublisher emits checkout events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
