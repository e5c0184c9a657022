package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	checkoutactivities "github.com/Apurer/foodio-storefront/internal/platform/temporal/activities/checkout"
)

type scriptedPayment struct {
	failures int
	calls    int
	decision *domain.Decision
}

func (p *scriptedPayment) Handoff(context.Context, *domain.Handoff) (*domain.Decision, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("provider timeout")
	}
	return p.decision, nil
}

func testHandoff(t *testing.T) *domain.Handoff {
	t.Helper()
	cart := cartdomain.NewCart()
	require.NoError(t, cart.AddItem("D1", "Dosa", decimal.NewFromInt(120), 3))
	handoff, err := domain.NewHandoff(cart.Snapshot(), cartdomain.ComputeTotals(cart, cartdomain.DefaultPricingPolicy()), domain.Customer{}, time.Now())
	require.NoError(t, err)
	return handoff
}

func newEnv(t *testing.T, payment *scriptedPayment) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	activities := checkoutactivities.NewActivities(payment)
	env.RegisterActivityWithOptions(activities.RequestPayment, activity.RegisterOptions{Name: checkoutactivities.RequestPaymentActivityName})
	return env
}

func TestPaymentHandoffWorkflow_Accepted(t *testing.T) {
	payment := &scriptedPayment{decision: &domain.Decision{Accepted: true, Reference: "pay-1"}}
	env := newEnv(t, payment)

	env.ExecuteWorkflow(PaymentHandoffWorkflow, PaymentHandoffWorkflowInput{Handoff: testHandoff(t), TraceID: "trace"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var decision domain.Decision
	require.NoError(t, env.GetWorkflowResult(&decision))
	require.True(t, decision.Accepted)
	require.Equal(t, "pay-1", decision.Reference)
}

func TestPaymentHandoffWorkflow_RetriesTransportFailures(t *testing.T) {
	payment := &scriptedPayment{failures: 2, decision: &domain.Decision{Accepted: false, Reason: "declined"}}
	env := newEnv(t, payment)

	env.ExecuteWorkflow(PaymentHandoffWorkflow, PaymentHandoffWorkflowInput{Handoff: testHandoff(t)})

	require.NoError(t, env.GetWorkflowError())
	var decision domain.Decision
	require.NoError(t, env.GetWorkflowResult(&decision))
	require.False(t, decision.Accepted)
	require.Equal(t, "declined", decision.Reason)
	require.Equal(t, 3, payment.calls)
}

func TestPaymentHandoffWorkflow_GivesUp(t *testing.T) {
	payment := &scriptedPayment{failures: 10}
	env := newEnv(t, payment)

	env.ExecuteWorkflow(PaymentHandoffWorkflow, PaymentHandoffWorkflowInput{Handoff: testHandoff(t)})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 4, payment.calls)
}

func TestPaymentHandoffWorkflow_MockedActivity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	activities := checkoutactivities.NewActivities(nil)
	env.RegisterActivityWithOptions(activities.RequestPayment, activity.RegisterOptions{Name: checkoutactivities.RequestPaymentActivityName})
	env.OnActivity(checkoutactivities.RequestPaymentActivityName, mock.Anything, mock.Anything).
		Return(&domain.Decision{Accepted: true, Reference: "mocked"}, nil)

	env.ExecuteWorkflow(PaymentHandoffWorkflow, PaymentHandoffWorkflowInput{Handoff: testHandoff(t)})

	require.NoError(t, env.GetWorkflowError())
	var decision domain.Decision
	require.NoError(t, env.GetWorkflowResult(&decision))
	require.Equal(t, "mocked", decision.Reference)
}
