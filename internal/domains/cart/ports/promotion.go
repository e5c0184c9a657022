package ports

import "github.com/shopspring/decimal"

// PromotionResolver maps a promotion code to a percentage discount rate.
// Implementations must be pure and case-insensitive.
type PromotionResolver interface {
	Resolve(code string) (decimal.Decimal, bool)
}
