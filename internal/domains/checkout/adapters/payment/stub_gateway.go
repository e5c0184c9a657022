package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

var _ ports.PaymentService = (*StubGateway)(nil)

// StubGateway accepts every positive hand-off, optionally rejecting totals above MaxTotal.
// It stands in for the payment provider in local runs.
type StubGateway struct {
	MaxTotal decimal.Decimal
}

func NewStubGateway(maxTotal decimal.Decimal) *StubGateway {
	return &StubGateway{MaxTotal: maxTotal}
}

func (g *StubGateway) Handoff(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if handoff == nil {
		return nil, errors.New("hand-off is nil")
	}
	if !handoff.Amount().IsPositive() {
		return &domain.Decision{
			Accepted: false,
			Reason:   fmt.Sprintf("amount %s must be positive", handoff.Amount().StringFixed(2)),
		}, nil
	}
	if g.MaxTotal.IsPositive() && handoff.Amount().GreaterThan(g.MaxTotal) {
		return &domain.Decision{
			Accepted: false,
			Reason:   fmt.Sprintf("amount %s exceeds limit %s", handoff.Amount().StringFixed(2), g.MaxTotal.StringFixed(2)),
		}, nil
	}
	return &domain.Decision{Accepted: true, Reference: "stub-" + handoff.ID.String()}, nil
}
