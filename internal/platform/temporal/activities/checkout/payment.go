package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

const (
	// RequestPaymentActivityName hands a cart to the payment provider and returns its decision.
	RequestPaymentActivityName = "checkout.activities.RequestPayment"
)

// Activities groups activities that talk to the payment provider.
type Activities struct {
	payment checkoutports.PaymentService
}

// NewActivities wires the payment gateway into the Temporal activities bundle.
// The gateway must not itself be a Temporal-backed service.
func NewActivities(payment checkoutports.PaymentService) *Activities {
	return &Activities{payment: payment}
}

// RequestPayment forwards the hand-off. A rejection is a successful activity result;
// only transport failures are returned as errors and retried.
func (a *Activities) RequestPayment(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.payment == nil {
		logger.Error("payment activity not initialized")
		return nil, errors.New("payment activity not initialized")
	}
	if handoff == nil {
		return nil, errors.New("hand-off is required")
	}
	handoffID := handoff.ID.String()
	logger.Info("RequestPayment activity started", "handoffId", handoffID, "amount", handoff.Amount().StringFixed(2))
	decision, err := a.payment.Handoff(ctx, handoff)
	if err != nil {
		logger.Error("RequestPayment activity failed", "handoffId", handoffID, "error", err)
		return nil, err
	}
	if decision == nil {
		return nil, errors.New("payment provider returned no decision")
	}
	logger.Info("RequestPayment activity completed", "handoffId", handoffID, "accepted", decision.Accepted)
	return decision, nil
}
