package storefrontserver

import "github.com/shopspring/decimal"

// AddCartItemRequest adds Quantity (default 1, may be negative) of an item at Price.
type AddCartItemRequest struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity,omitempty"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type PromotionRequest struct {
	Code string `json:"code"`
}

type CartLine struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type Totals struct {
	ItemCount      int    `json:"itemCount"`
	Subtotal       string `json:"subtotal"`
	DeliveryFee    string `json:"deliveryFee"`
	Tax            string `json:"tax"`
	DiscountRate   string `json:"discountRate"`
	DiscountAmount string `json:"discountAmount"`
	GrandTotal     string `json:"grandTotal"`
}

type Cart struct {
	Lines     []CartLine `json:"lines"`
	PromoCode string     `json:"promoCode,omitempty"`
	Totals    Totals     `json:"totals"`
}
