package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	checkoutactivities "github.com/Apurer/foodio-storefront/internal/platform/temporal/activities/checkout"
)

// RunPaymentHandoffSequence asks the payment provider for a decision, retrying transport failures.
func RunPaymentHandoffSequence(ctx workflow.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	logger := workflow.GetLogger(ctx)
	handoffID := ""
	if handoff != nil {
		handoffID = handoff.ID.String()
	}
	logger.Info("payment hand-off sequence started", "handoffId", handoffID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    4,
		},
	}

	var decision domain.Decision
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), checkoutactivities.RequestPaymentActivityName, handoff).Get(ctx, &decision)
	if err != nil {
		logger.Error("payment hand-off sequence failed", "handoffId", handoffID, "error", err)
		return nil, err
	}
	logger.Info("payment hand-off sequence decided", "handoffId", handoffID, "accepted", decision.Accepted)
	return &decision, nil
}
