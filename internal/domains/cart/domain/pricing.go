package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingPolicy holds the delivery and tax constants used by ComputeTotals.
type PricingPolicy struct {
	// Delivery is free when the subtotal is strictly above this threshold.
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	// TaxRate is a fraction, e.g. 0.05 for 5%.
	TaxRate decimal.Decimal
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeDeliveryThreshold: decimal.NewFromInt(500),
		DeliveryFee:           decimal.NewFromInt(40),
		TaxRate:               decimal.RequireFromString("0.05"),
	}
}

func (p PricingPolicy) Validate() error {
	if p.FreeDeliveryThreshold.IsNegative() || p.DeliveryFee.IsNegative() || p.TaxRate.IsNegative() {
		return errors.New("pricing policy values must not be negative")
	}
	return nil
}

// Totals is the price breakdown derived from a cart. Values are unrounded.
type Totals struct {
	ItemCount      int
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	Tax            decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	GrandTotal     decimal.Decimal
}

// ComputeTotals is a pure function of the cart contents, its promotion and the policy.
// An empty cart costs nothing, delivery included.
func ComputeTotals(cart *Cart, policy PricingPolicy) Totals {
	if cart == nil || cart.Len() == 0 {
		return Totals{
			Subtotal:       decimal.Zero,
			DeliveryFee:    decimal.Zero,
			Tax:            decimal.Zero,
			DiscountRate:   decimal.Zero,
			DiscountAmount: decimal.Zero,
			GrandTotal:     decimal.Zero,
		}
	}
	subtotal := cart.Subtotal()
	delivery := policy.DeliveryFee
	if subtotal.GreaterThan(policy.FreeDeliveryThreshold) {
		delivery = decimal.Zero
	}
	rate := cart.Promotion().Rate
	tax := subtotal.Mul(policy.TaxRate)
	discount := subtotal.Mul(rate).Div(hundred)
	grand := subtotal.Add(delivery).Add(tax).Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	return Totals{
		ItemCount:      cart.ItemCount(),
		Subtotal:       subtotal,
		DeliveryFee:    delivery,
		Tax:            tax,
		DiscountRate:   rate,
		DiscountAmount: discount,
		GrandTotal:     grand,
	}
}

// DisplayTotals is Totals rounded to two decimal places for presentation.
type DisplayTotals struct {
	ItemCount      int
	Subtotal       string
	DeliveryFee    string
	Tax            string
	DiscountRate   string
	DiscountAmount string
	GrandTotal     string
}

// Display rounds every amount half away from zero to two places. This is the only rounding step.
func (t Totals) Display() DisplayTotals {
	return DisplayTotals{
		ItemCount:      t.ItemCount,
		Subtotal:       t.Subtotal.StringFixed(2),
		DeliveryFee:    t.DeliveryFee.StringFixed(2),
		Tax:            t.Tax.StringFixed(2),
		DiscountRate:   t.DiscountRate.String(),
		DiscountAmount: t.DiscountAmount.StringFixed(2),
		GrandTotal:     t.GrandTotal.StringFixed(2),
	}
}
