package authapi

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type loginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type registerRequest struct {
	Name     string              `json:"name"`
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type verifyOTPRequest struct {
	Email openapi_types.Email `json:"email"`
	OTP   string              `json:"otp"`
}

type addressPayload struct {
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// authResponse covers login, register, verify-otp and save-address replies.
type authResponse struct {
	User    map[string]any `json:"user"`
	Message string         `json:"message"`
	Token   string         `json:"token"`
}

type checkResponse struct {
	LoggedIn bool           `json:"loggedIn"`
	User     map[string]any `json:"user"`
}
