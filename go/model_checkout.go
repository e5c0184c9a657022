package storefrontserver

import "time"

type Receipt struct {
	HandoffID  string     `json:"handoffId"`
	Reference  string     `json:"reference,omitempty"`
	Lines      []CartLine `json:"lines"`
	PromoCode  string     `json:"promoCode,omitempty"`
	Totals     Totals     `json:"totals"`
	CustomerID string     `json:"customerId,omitempty"`
	AcceptedAt time.Time  `json:"acceptedAt"`
}
