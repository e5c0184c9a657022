package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant before any network call.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrNotAuthenticated is returned by operations that need a confirmed credential.
	ErrNotAuthenticated = errors.New("session is not authenticated")
	// ErrCredentialPersistence wraps failures writing the bearer token locally.
	ErrCredentialPersistence = errors.New("failed to persist credential")
)

const (
	msgLoginFailed        = "login failed"
	msgRegisterFailed     = "registration failed"
	msgVerifyFailed       = "OTP verification failed"
	msgSaveAddressFailed  = "failed to save address"
	msgSessionCheckFailed = "session check failed"
	msgSessionExpired     = "session expired, please log in again"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmailMismatch) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyOTP) ||
		errors.Is(err, domain.ErrEmptyAddressLine) ||
		errors.Is(err, domain.ErrEmptyCity) ||
		errors.Is(err, domain.ErrEmptyPostalCode) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// failureMessage prefers the server's message, then local validation text, then the fallback.
func failureMessage(err error, fallback string) string {
	if msg := ports.ServerMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, ErrInvalidInput) {
		return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
	}
	return fallback
}
