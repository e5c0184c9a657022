package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
)

func newHandoff(t *testing.T, price int64, qty int) *domain.Handoff {
	t.Helper()
	cart := cartdomain.NewCart()
	require.NoError(t, cart.AddItem("D1", "Biryani", decimal.NewFromInt(price), qty))
	handoff, err := domain.NewHandoff(cart.Snapshot(), cartdomain.ComputeTotals(cart, cartdomain.DefaultPricingPolicy()), domain.Customer{ID: "u-1"}, time.Now())
	require.NoError(t, err)
	return handoff
}

func TestStubGateway(t *testing.T) {
	gateway := NewStubGateway(decimal.NewFromInt(1000))

	decision, err := gateway.Handoff(context.Background(), newHandoff(t, 300, 2))
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Contains(t, decision.Reference, "stub-")

	decision, err = gateway.Handoff(context.Background(), newHandoff(t, 600, 2))
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Contains(t, decision.Reason, "exceeds limit")
}

func TestStubGateway_RejectsNonPositiveAmount(t *testing.T) {
	gateway := NewStubGateway(decimal.Zero)

	for _, total := range []string{"0", "0.004", "-5"} {
		handoff := &domain.Handoff{Totals: cartdomain.Totals{GrandTotal: decimal.RequireFromString(total)}}
		decision, err := gateway.Handoff(context.Background(), handoff)
		require.NoError(t, err)
		assert.False(t, decision.Accepted, total)
		assert.Contains(t, decision.Reason, "must be positive")
	}
}

func TestHTTPGateway_Accepted(t *testing.T) {
	handoff := newHandoff(t, 300, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/handoffs", r.URL.Path)
		assert.Equal(t, handoff.ID.String(), r.Header.Get("Idempotency-Key"))
		var body handoffRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "630.00", body.Amount)
		assert.Equal(t, "40.00", body.Delivery)
		require.Len(t, body.Items, 1)
		assert.Equal(t, "300.00", body.Items[0].UnitPrice)
		_, _ = w.Write([]byte(`{"accepted":true,"reference":"pay-42"}`))
	}))
	defer server.Close()

	decision, err := NewHTTPGateway(server.URL+"/", nil, BreakerSettings{}).Handoff(context.Background(), handoff)
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Equal(t, "pay-42", decision.Reference)
}

func TestHTTPGateway_RejectionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"message":"card declined"}`))
	}))
	defer server.Close()

	gateway := NewHTTPGateway(server.URL, nil, BreakerSettings{ConsecutiveFailures: 1})
	for i := 0; i < 3; i++ {
		decision, err := gateway.Handoff(context.Background(), newHandoff(t, 300, 1))
		require.NoError(t, err)
		assert.False(t, decision.Accepted)
		assert.Equal(t, "card declined", decision.Reason)
	}
	assert.Equal(t, gobreaker.StateClosed, gateway.State())
}

func TestHTTPGateway_BreakerOpensOnFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var transitions []gobreaker.State
	gateway := NewHTTPGateway(server.URL, nil, BreakerSettings{
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Minute,
		OnStateChange: func(_ string, _, to gobreaker.State) {
			transitions = append(transitions, to)
		},
	})

	for i := 0; i < 2; i++ {
		_, err := gateway.Handoff(context.Background(), newHandoff(t, 300, 1))
		require.ErrorIs(t, err, ErrGatewayUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, gateway.State())

	_, err := gateway.Handoff(context.Background(), newHandoff(t, 300, 1))
	require.ErrorIs(t, err, ErrGatewayUnavailable)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
}

func TestHTTPGateway_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewHTTPGateway(server.URL, nil, BreakerSettings{}).Handoff(context.Background(), newHandoff(t, 300, 1))
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}
