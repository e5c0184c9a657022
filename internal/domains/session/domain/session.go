package domain

import (
	"errors"
	"strings"
)

// Status enumerates the authentication lifecycle of the storefront user.
type Status string

const (
	StatusAnonymous           Status = "anonymous"
	StatusPendingVerification Status = "pending_verification"
	StatusAuthenticated       Status = "authenticated"
)

var (
	ErrEmptyEmail        = errors.New("email is required")
	ErrInvalidEmail      = errors.New("email must contain '@'")
	ErrEmailMismatch     = errors.New("email does not match the pending verification")
	ErrEmptyPassword     = errors.New("password is required")
	ErrEmptyName         = errors.New("name is required")
	ErrEmptyOTP          = errors.New("verification code is required")
	ErrMissingIdentity   = errors.New("identity is required to authenticate")
	ErrMissingCredential = errors.New("credential token is required to authenticate")
	ErrInvalidTransition = errors.New("session transition is not allowed")
)

// Session is the authentication state owned by the session store.
type Session struct {
	Identity        *Identity
	Status          Status
	CredentialToken string
	LastError       string
	PendingEmail    string
}

// NewAnonymous returns the zero-value session used at process start.
func NewAnonymous() *Session {
	return &Session{Status: StatusAnonymous}
}

// Authenticate binds the identity and token. Both must be present.
func (s *Session) Authenticate(identity *Identity, token string) error {
	token = strings.TrimSpace(token)
	if identity == nil {
		return ErrMissingIdentity
	}
	if token == "" {
		return ErrMissingCredential
	}
	clone := identity.Clone()
	s.Identity = clone
	s.CredentialToken = token
	s.Status = StatusAuthenticated
	s.PendingEmail = ""
	s.LastError = ""
	return nil
}

// AwaitVerification parks the session until an OTP is exchanged for a token.
// An authenticated session cannot go back to pending without logging out first.
func (s *Session) AwaitVerification(email string) error {
	if s.Status == StatusAuthenticated {
		return ErrInvalidTransition
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	s.Identity = nil
	s.CredentialToken = ""
	s.Status = StatusPendingVerification
	s.PendingEmail = email
	s.LastError = ""
	return nil
}

// Reset drops identity and credential, landing in Anonymous.
func (s *Session) Reset() {
	s.Identity = nil
	s.CredentialToken = ""
	s.Status = StatusAnonymous
	s.PendingEmail = ""
}

// Fail records a user-facing failure message without changing status.
func (s *Session) Fail(message string) {
	s.LastError = strings.TrimSpace(message)
}

// ReplaceIdentity swaps the identity of an authenticated session, e.g. after an address save.
func (s *Session) ReplaceIdentity(identity *Identity) error {
	if s.Status != StatusAuthenticated {
		return ErrInvalidTransition
	}
	if identity == nil {
		return ErrMissingIdentity
	}
	s.Identity = identity.Clone()
	return nil
}

// IsAuthenticated reports whether the session holds a confirmed identity and credential.
func (s *Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil && s.CredentialToken != ""
}

// Clone returns a deep copy safe to hand to callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Identity = s.Identity.Clone()
	return &clone
}

// Validate re-checks the status/identity/credential invariant.
func (s *Session) Validate() error {
	switch s.Status {
	case StatusAuthenticated:
		if s.Identity == nil {
			return ErrMissingIdentity
		}
		if s.CredentialToken == "" {
			return ErrMissingCredential
		}
	case StatusAnonymous, StatusPendingVerification:
		if s.Identity != nil || s.CredentialToken != "" {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email and applies a minimal shape check.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
