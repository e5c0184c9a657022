package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
)

func quote(t *testing.T) (cartdomain.Snapshot, cartdomain.Totals) {
	t.Helper()
	cart := cartdomain.NewCart()
	require.NoError(t, cart.AddItem("D1", "Thali", decimal.NewFromInt(300), 2))
	cart.ApplyPromotion("FIRST10", decimal.NewFromInt(10))
	return cart.Snapshot(), cartdomain.ComputeTotals(cart, cartdomain.DefaultPricingPolicy())
}

func TestNewHandoff(t *testing.T) {
	snapshot, totals := quote(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("IST", 19800))

	handoff, err := NewHandoff(snapshot, totals, Customer{ID: "u-1"}, now)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, handoff.ID)
	require.Equal(t, time.UTC, handoff.RequestedAt.Location())
	require.Equal(t, "570.00", handoff.Amount().StringFixed(2))
	require.Equal(t, "FIRST10", handoff.Promotion.Code)

	snapshot.Lines[0].Quantity = 99
	require.Equal(t, 2, handoff.Lines[0].Quantity)
}

func TestNewHandoff_EmptyCart(t *testing.T) {
	_, err := NewHandoff(cartdomain.Snapshot{}, cartdomain.Totals{}, Customer{}, time.Now())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewReceipt(t *testing.T) {
	snapshot, totals := quote(t)
	handoff, err := NewHandoff(snapshot, totals, Customer{ID: "u-1", Email: "a@example.com"}, time.Now())
	require.NoError(t, err)

	_, err = NewReceipt(handoff, &Decision{Accepted: false, Reason: "declined"}, time.Now())
	require.ErrorIs(t, err, ErrPaymentRejected)
	require.True(t, errors.Is(err, ErrPaymentHandoffFailure))

	receipt, err := NewReceipt(handoff, &Decision{Accepted: true, Reference: " pay-1 "}, time.Now())
	require.NoError(t, err)
	require.Equal(t, handoff.ID, receipt.HandoffID)
	require.Equal(t, "pay-1", receipt.Reference)
	require.Equal(t, []string{"D1"}, receipt.ItemIDs())
	require.Equal(t, "u-1", receipt.Customer.ID)
}

func TestNewEvent(t *testing.T) {
	snapshot, totals := quote(t)
	handoff, err := NewHandoff(snapshot, totals, Customer{ID: "u-1"}, time.Now())
	require.NoError(t, err)

	event := NewEvent(EventRejected, handoff, &Decision{Reason: "card declined"}, time.Now())
	require.Equal(t, EventRejected, event.Type)
	require.Equal(t, "570.00", event.GrandTotal)
	require.Equal(t, 2, event.ItemCount)
	require.Equal(t, "card declined", event.Reason)
}
