package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
	apierrors "github.com/Apurer/foodio-storefront/internal/shared/errors"
)

// SessionAPI exposes the session store to the storefront UI.
type SessionAPI struct {
	service sessionports.Service
}

func NewSessionAPI(service sessionports.Service) SessionAPI {
	return SessionAPI{service: service}
}

// Get /v1/session
func (api *SessionAPI) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, fromDomainSession(api.service.Snapshot(), api.service.InFlight))
}

// Post /v1/session/login
func (api *SessionAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(session, api.service.InFlight))
}

// Post /v1/session/register
// A 202 means the account awaits OTP verification.
func (api *SessionAPI) Register(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := api.service.Register(c.Request.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	status := http.StatusOK
	if !session.IsAuthenticated() {
		status = http.StatusAccepted
	}
	c.JSON(status, fromDomainSession(session, api.service.InFlight))
}

// Post /v1/session/verify-otp
func (api *SessionAPI) VerifyOTP(c *gin.Context) {
	var payload VerifyOTPRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := api.service.VerifyOTP(c.Request.Context(), payload.Email, payload.OTP)
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(session, api.service.InFlight))
}

// Post /v1/session/logout
// Always succeeds; the session ends anonymous.
func (api *SessionAPI) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, fromDomainSession(api.service.Logout(c.Request.Context()), api.service.InFlight))
}

// Post /v1/session/restore
func (api *SessionAPI) RestoreSession(c *gin.Context) {
	session, err := api.service.RestoreSession(c.Request.Context())
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(session, api.service.InFlight))
}

// Post /v1/session/addresses
func (api *SessionAPI) SaveAddress(c *gin.Context) {
	var payload Address
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := api.service.SaveAddress(c.Request.Context(), toDomainAddress(payload))
	if err != nil {
		respondStorefrontError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(session, api.service.InFlight))
}
