package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/foodio-storefront/internal/domains/session/domain"
)

var (
	// ErrAuthRejected means the Auth Service answered with a non-success status.
	ErrAuthRejected = errors.New("auth service rejected the request")
	// ErrCredentialRejected means the bearer token was refused (401). It is also an ErrAuthRejected.
	ErrCredentialRejected = fmt.Errorf("%w: credential rejected", ErrAuthRejected)
	// ErrNetworkFailure wraps transport-level failures talking to the Auth Service.
	ErrNetworkFailure = errors.New("auth service unreachable")
)

// AuthResult is the common response shape of login/register/verify-otp.
type AuthResult struct {
	Identity *domain.Identity
	Message  string
	Token    string
}

// SessionCheck is the response of the session check endpoint.
type SessionCheck struct {
	LoggedIn bool
	Identity *domain.Identity
}

// AddressResult is the response of the save-address endpoint.
type AddressResult struct {
	Identity *domain.Identity
	Message  string
}

// AuthService is the outbound port to the remote authentication API.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error)
	Logout(ctx context.Context, token string) (string, error)
	Check(ctx context.Context, token string) (*SessionCheck, error)
	SaveAddress(ctx context.Context, token string, address domain.Address) (*AddressResult, error)
}

// RejectionError carries the server-supplied message of a rejected call.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth service rejected the request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("auth service rejected the request (status %d): %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match ErrAuthRejected, and ErrCredentialRejected for 401s.
func (e *RejectionError) Is(target error) bool {
	if target == ErrAuthRejected {
		return true
	}
	return target == ErrCredentialRejected && e.StatusCode == 401
}

// ServerMessage extracts the server message from a rejection, if any.
func ServerMessage(err error) string {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Message
	}
	return ""
}
