package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BreakerStateFunc reports the payment circuit breaker state, e.g. "closed" or "open".
type BreakerStateFunc func() string

// HealthAPI reports liveness and the payment breaker state.
type HealthAPI struct {
	paymentBreaker BreakerStateFunc
}

// NewHealthAPI builds the health handler. A nil breaker reports "n/a", which is what
// the stub gateway and the Temporal hand-off look like from here.
func NewHealthAPI(paymentBreaker BreakerStateFunc) HealthAPI {
	return HealthAPI{paymentBreaker: paymentBreaker}
}

// Get /v1/health
func (api *HealthAPI) GetHealth(c *gin.Context) {
	out := Health{Status: "ok", PaymentBreaker: "n/a"}
	if api.paymentBreaker != nil {
		out.PaymentBreaker = api.paymentBreaker()
		if out.PaymentBreaker == "open" {
			out.Status = "degraded"
		}
	}
	c.JSON(http.StatusOK, out)
}
