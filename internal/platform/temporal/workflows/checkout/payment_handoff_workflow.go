package checkout

import (
	"errors"

	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/platform/temporal/sequences"
)

const (
	// PaymentHandoffWorkflowName is the public identifier for registering the workflow.
	PaymentHandoffWorkflowName = "checkout.workflows.PaymentHandoff"
	// PaymentHandoffTaskQueue is the queue consumed by the worker processing hand-offs.
	PaymentHandoffTaskQueue = "PAYMENT_HANDOFF"
)

// PaymentHandoffWorkflowInput carries the frozen cart quote to the payment provider.
type PaymentHandoffWorkflowInput struct {
	Handoff *domain.Handoff
	TraceID string
}

// PaymentHandoffWorkflow drives a single hand-off to a decision.
func PaymentHandoffWorkflow(ctx workflow.Context, input PaymentHandoffWorkflowInput) (*domain.Decision, error) {
	logger := workflow.GetLogger(ctx)
	if input.Handoff == nil {
		return nil, errors.New("hand-off is required")
	}
	handoffID := input.Handoff.ID.String()
	logger.Info("PaymentHandoffWorkflow started", withTraceID(input.TraceID, "handoffId", handoffID)...)
	decision, err := sequences.RunPaymentHandoffSequence(ctx, input.Handoff)
	if err != nil {
		logger.Error("PaymentHandoffWorkflow failed", withTraceID(input.TraceID, "handoffId", handoffID, "error", err)...)
		return nil, err
	}
	logger.Info("PaymentHandoffWorkflow completed", withTraceID(input.TraceID, "handoffId", handoffID, "accepted", decision.Accepted)...)
	return decision, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
