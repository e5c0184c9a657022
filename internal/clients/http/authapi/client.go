package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

const maxResponseBytes = 1 << 20

// Client talks to the remote authentication API mounted under baseURL (usually ".../api").
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the auth client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("auth API base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*sessionports.AuthResult, error) {
	var resp authResponse
	body := loginRequest{Email: openapi_types.Email(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*sessionports.AuthResult, error) {
	var resp authResponse
	body := registerRequest{Name: name, Email: openapi_types.Email(email), Password: password}
	if err := c.do(ctx, http.MethodPost, "/register", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*sessionports.AuthResult, error) {
	var resp authResponse
	body := verifyOTPRequest{Email: openapi_types.Email(email), OTP: otp}
	if err := c.do(ctx, http.MethodPost, "/verify-otp", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

func (c *Client) Logout(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/logout", token, struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Check(ctx context.Context, token string) (*sessionports.SessionCheck, error) {
	var resp checkResponse
	if err := c.do(ctx, http.MethodGet, "/check", token, nil, &resp); err != nil {
		return nil, err
	}
	return &sessionports.SessionCheck{LoggedIn: resp.LoggedIn, Identity: toIdentity(resp.User)}, nil
}

func (c *Client) SaveAddress(ctx context.Context, token string, address sessiondomain.Address) (*sessionports.AddressResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/addresses", token, fromAddress(address), &resp); err != nil {
		return nil, err
	}
	return &sessionports.AddressResult{Identity: toIdentity(resp.User), Message: resp.Message}, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("auth client not configured")
	}
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", sessionports.ErrNetworkFailure, method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", sessionports.ErrNetworkFailure, path, err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return &sessionports.RejectionError{StatusCode: res.StatusCode, Message: decodeMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", sessionports.ErrNetworkFailure, path, err)
	}
	return nil
}

func decodeMessage(raw []byte) string {
	var body messageResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}

var _ sessionports.AuthService = (*Client)(nil)
