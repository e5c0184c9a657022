package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutports "github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	apierrors "github.com/Apurer/foodio-storefront/internal/shared/errors"
)

// CheckoutAPI hands the cart to the payment service and exposes past receipts.
type CheckoutAPI struct {
	service checkoutports.Service
}

func NewCheckoutAPI(service checkoutports.Service) CheckoutAPI {
	return CheckoutAPI{service: service}
}

// Post /v1/checkout
func (api *CheckoutAPI) BeginCheckout(c *gin.Context) {
	receipt, err := api.service.BeginCheckout(c.Request.Context())
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainReceipt(receipt))
}

// Get /v1/checkout/receipts
func (api *CheckoutAPI) ListReceipts(c *gin.Context) {
	list, err := api.service.Receipts(c.Request.Context())
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	out := make([]Receipt, 0, len(list))
	for _, p := range list {
		out = append(out, fromDomainReceipt(p.Entity))
	}
	c.JSON(http.StatusOK, out)
}

// Get /v1/checkout/receipts/:handoffId
func (api *CheckoutAPI) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("handoffId"))
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("handoffId must be a UUID"))
		return
	}
	receipt, err := api.service.Receipt(c.Request.Context(), id)
	if errors.Is(err, checkoutports.ErrReceiptNotFound) {
		respondProblem(c, apierrors.NewNotFoundProblem("receipt", id))
		return
	}
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainReceipt(receipt.Entity))
}
