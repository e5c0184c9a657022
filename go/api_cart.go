package storefrontserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	cartports "github.com/Apurer/foodio-storefront/internal/domains/cart/ports"
	apierrors "github.com/Apurer/foodio-storefront/internal/shared/errors"
)

// CartAPI exposes the cart ledger. Every mutation is followed by a snapshot write; a failed
// write is logged and does not fail the request.
type CartAPI struct {
	ledger cartports.Ledger
	logger *slog.Logger
}

func NewCartAPI(ledger cartports.Ledger, logger *slog.Logger) CartAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return CartAPI{ledger: ledger, logger: logger}
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	api.respondCart(c, http.StatusOK)
}

// Post /v1/cart/items
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload AddCartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	delta := 1
	if payload.Quantity != nil {
		delta = *payload.Quantity
	}
	if err := api.ledger.AddItem(payload.ItemID, payload.Name, payload.Price, delta); err != nil {
		respondStorefrontError(c, err)
		return
	}
	api.persist(c)
	api.respondCart(c, http.StatusOK)
}

// Put /v1/cart/items/:itemId
// A quantity of zero or less removes the line.
func (api *CartAPI) SetQuantity(c *gin.Context) {
	itemID := strings.TrimSpace(c.Param("itemId"))
	var payload SetQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if err := api.ledger.SetQuantity(itemID, payload.Quantity); err != nil {
		respondStorefrontError(c, err)
		return
	}
	api.persist(c)
	api.respondCart(c, http.StatusOK)
}

// Delete /v1/cart/items/:itemId
func (api *CartAPI) RemoveItem(c *gin.Context) {
	api.ledger.RemoveItem(strings.TrimSpace(c.Param("itemId")))
	api.persist(c)
	api.respondCart(c, http.StatusOK)
}

// Delete /v1/cart
func (api *CartAPI) Clear(c *gin.Context) {
	api.ledger.Clear()
	api.persist(c)
	api.respondCart(c, http.StatusOK)
}

// Post /v1/cart/promotion
// An unknown code clears any promotion and answers 422 with the cart attached.
func (api *CartAPI) ApplyPromotion(c *gin.Context) {
	var payload PromotionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	err := api.ledger.ApplyPromotion(payload.Code)
	api.persist(c)
	if err != nil {
		snapshot, totals := api.ledger.Quote()
		respondProblem(c, apierrors.ErrInvalidPromotion.
			WithDetail(err.Error()).
			WithExtension("cart", fromDomainCart(snapshot, totals)))
		return
	}
	api.respondCart(c, http.StatusOK)
}

func (api *CartAPI) respondCart(c *gin.Context, status int) {
	snapshot, totals := api.ledger.Quote()
	c.JSON(status, fromDomainCart(snapshot, totals))
}

func (api *CartAPI) persist(c *gin.Context) {
	if err := api.ledger.Persist(c.Request.Context()); err != nil {
		api.logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "failed to persist cart snapshot", slog.String("error", err.Error()))
	}
}
