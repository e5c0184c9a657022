package ports

import (
	"context"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
)

// PaymentService accepts a hand-off and answers accept or reject. A returned error means
// no decision was reached.
type PaymentService interface {
	Handoff(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error)
}
