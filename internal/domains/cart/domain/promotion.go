package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PromotionRules maps an upper-cased code to its percentage discount rate.
type PromotionRules map[string]decimal.Decimal

func DefaultPromotionRules() PromotionRules {
	return PromotionRules{
		"FOODIO20": decimal.NewFromInt(20),
		"FIRST10":  decimal.NewFromInt(10),
	}
}

// NormalizeCode trims and upper-cases a promotion code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve looks the code up case-insensitively.
func (r PromotionRules) Resolve(code string) (decimal.Decimal, bool) {
	rate, ok := r[NormalizeCode(code)]
	return rate, ok
}

// Merge returns a new rule set with extra layered over r.
func (r PromotionRules) Merge(extra PromotionRules) PromotionRules {
	merged := make(PromotionRules, len(r)+len(extra))
	for code, rate := range r {
		merged[code] = rate
	}
	for code, rate := range extra {
		merged[code] = rate
	}
	return merged
}

// ParsePromotionRules reads "CODE:rate,CODE:rate". Rates are percentages in [0, 100].
func ParsePromotionRules(raw string) (PromotionRules, error) {
	rules := PromotionRules{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, value, ok := strings.Cut(entry, ":")
		code = NormalizeCode(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("promotion rule %q must look like CODE:rate", entry)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("promotion rule %q: %w", entry, err)
		}
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return nil, fmt.Errorf("promotion rule %q: rate must be between 0 and 100", entry)
		}
		rules[code] = rate
	}
	return rules, nil
}
