package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrCheckoutInProgress    = errors.New("checkout already in progress")
	ErrPaymentHandoffFailure = errors.New("payment hand-off failed")
	// ErrPaymentRejected is a hand-off failure where the payment service answered no.
	ErrPaymentRejected = fmt.Errorf("%w: payment rejected", ErrPaymentHandoffFailure)
)

// Customer identifies who is checking out, when known.
type Customer struct {
	ID    string
	Email string
}

// Handoff is the computed total plus line snapshot handed to the payment service.
type Handoff struct {
	ID          uuid.UUID
	Lines       []cartdomain.Line
	Promotion   cartdomain.Promotion
	Totals      cartdomain.Totals
	Customer    Customer
	RequestedAt time.Time
}

// NewHandoff freezes a cart quote into a hand-off with a fresh id.
func NewHandoff(snapshot cartdomain.Snapshot, totals cartdomain.Totals, customer Customer, now time.Time) (*Handoff, error) {
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}
	lines := make([]cartdomain.Line, len(snapshot.Lines))
	copy(lines, snapshot.Lines)
	return &Handoff{
		ID:          uuid.New(),
		Lines:       lines,
		Promotion:   snapshot.Promotion,
		Totals:      totals,
		Customer:    customer,
		RequestedAt: now.UTC(),
	}, nil
}

// Amount is the grand total rounded to the currency's two places.
func (h *Handoff) Amount() decimal.Decimal {
	return h.Totals.GrandTotal.Round(2)
}

// Decision is the payment service's answer to a hand-off.
type Decision struct {
	Accepted  bool
	Reference string
	Reason    string
}

// Receipt records an accepted hand-off.
type Receipt struct {
	HandoffID  uuid.UUID
	Reference  string
	Lines      []cartdomain.Line
	PromoCode  string
	Totals     cartdomain.Totals
	Customer   Customer
	AcceptedAt time.Time
}

// NewReceipt builds a receipt from an accepted decision.
func NewReceipt(handoff *Handoff, decision *Decision, now time.Time) (*Receipt, error) {
	if handoff == nil {
		return nil, errors.New("hand-off is required")
	}
	if decision == nil || !decision.Accepted {
		return nil, ErrPaymentRejected
	}
	return &Receipt{
		HandoffID:  handoff.ID,
		Reference:  strings.TrimSpace(decision.Reference),
		Lines:      handoff.Lines,
		PromoCode:  handoff.Promotion.Code,
		Totals:     handoff.Totals,
		Customer:   handoff.Customer,
		AcceptedAt: now.UTC(),
	}, nil
}

// ItemIDs lists the item ids on the receipt in display order.
func (r *Receipt) ItemIDs() []string {
	ids := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		ids = append(ids, line.ItemID)
	}
	return ids
}
