package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	checkoutworkflows "github.com/Apurer/foodio-storefront/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.PaymentService = (*TemporalPaymentHandoff)(nil)
	_ ports.PaymentService = (*InlinePaymentHandoff)(nil)
)

// TemporalPaymentHandoff runs each hand-off as a durable workflow on a Temporal cluster.
type TemporalPaymentHandoff struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPaymentHandoff wires a Temporal client into the payment port.
func NewTemporalPaymentHandoff(c client.Client) *TemporalPaymentHandoff {
	return &TemporalPaymentHandoff{client: c, taskQueue: checkoutworkflows.PaymentHandoffTaskQueue}
}

// Handoff starts the workflow and waits for its decision. The workflow id is derived
// from the hand-off id, so a resubmitted hand-off attaches to the existing run.
func (o *TemporalPaymentHandoff) Handoff(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal payment hand-off not configured")
	}
	if handoff == nil {
		return nil, errors.New("hand-off is nil")
	}
	workflowID := buildPaymentHandoffWorkflowID(handoff)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.PaymentHandoffWorkflow,
		checkoutworkflows.PaymentHandoffWorkflowInput{Handoff: handoff, TraceID: workflowTraceComponent(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var decision domain.Decision
	if err := run.Get(ctx, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

// InlinePaymentHandoff calls the gateway directly without durable orchestration,
// for tests and for runs without a Temporal cluster.
type InlinePaymentHandoff struct {
	gateway ports.PaymentService
}

func NewInlinePaymentHandoff(gateway ports.PaymentService) *InlinePaymentHandoff {
	return &InlinePaymentHandoff{gateway: gateway}
}

func (o *InlinePaymentHandoff) Handoff(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	if o == nil || o.gateway == nil {
		return nil, errors.New("inline payment hand-off not configured")
	}
	return o.gateway.Handoff(ctx, handoff)
}

func buildPaymentHandoffWorkflowID(handoff *domain.Handoff) string {
	return fmt.Sprintf("payment-handoff-%s", handoff.ID)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
