package storefrontserver

type Health struct {
	Status         string `json:"status"`
	PaymentBreaker string `json:"paymentBreaker"`
}
