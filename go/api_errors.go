package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/foodio-storefront/internal/domains/cart/application"
	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	checkoutdomain "github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	sessionapp "github.com/Apurer/foodio-storefront/internal/domains/session/application"
	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
	apierrors "github.com/Apurer/foodio-storefront/internal/shared/errors"
)

// responder maps storefront errors to problem details; unknown errors fall through to 500.
var responder = apierrors.NewChainedResponder("",
	mapSessionError,
	mapCartError,
	mapCheckoutError,
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondStorefrontError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func mapSessionError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, sessionapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, sessionports.ErrOperationInFlight):
		return apierrors.ErrOperationInFlight.WithDetail(err.Error()), true
	case errors.Is(err, sessiondomain.ErrInvalidTransition):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, sessionapp.ErrNotAuthenticated), errors.Is(err, sessionports.ErrCredentialRejected):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, sessionports.ErrAuthRejected):
		problem := apierrors.ErrUnprocessable.WithDetail(err.Error())
		if msg := sessionports.ServerMessage(err); msg != "" {
			problem = problem.WithExtension("serverMessage", msg)
		}
		return problem, true
	case errors.Is(err, sessionports.ErrNetworkFailure):
		return apierrors.ErrUpstreamFailure.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCartError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, cartapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, cartdomain.ErrLineNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, cartdomain.ErrInvalidPromotion):
		return apierrors.ErrInvalidPromotion.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCheckoutError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, checkoutdomain.ErrEmptyCart):
		return apierrors.ErrEmptyCart.WithDetail(err.Error()), true
	case errors.Is(err, checkoutdomain.ErrCheckoutInProgress):
		return apierrors.ErrCheckoutInProgress.WithDetail(err.Error()), true
	case errors.Is(err, checkoutdomain.ErrPaymentRejected):
		return apierrors.ErrPaymentRejected.WithDetail(err.Error()), true
	case errors.Is(err, checkoutdomain.ErrPaymentHandoffFailure):
		return apierrors.ErrUpstreamFailure.WithDetail(err.Error()), true
	case errors.Is(err, checkoutports.ErrReceiptNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
