package payment

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

	"github.com/sony/gobreaker/v2"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

var _ ports.PaymentService = (*HTTPGateway)(nil)

// ErrGatewayUnavailable is returned while the breaker is open or the provider is failing.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

const maxResponseBytes = 1 << 20

// BreakerSettings tunes the circuit breaker in front of the provider.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker. Zero means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial request. Zero means 30s.
	OpenTimeout time.Duration
	// OnStateChange observes breaker transitions.
	OnStateChange func(name string, from, to gobreaker.State)
}

// HTTPGateway hands carts to a remote payment provider over JSON/HTTP.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*domain.Decision]
}

func NewHTTPGateway(baseURL string, httpClient *http.Client, settings BreakerSettings) *HTTPGateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	failures := settings.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	timeout := settings.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker[*domain.Decision](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: settings.OnStateChange,
		// Rejections are answers, not faults.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		breaker:    breaker,
	}
}

type handoffLine struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type handoffRequest struct {
	HandoffID  string        `json:"handoffId"`
	Amount     string        `json:"amount"`
	Subtotal   string        `json:"subtotal"`
	Delivery   string        `json:"deliveryFee"`
	Tax        string        `json:"tax"`
	Discount   string        `json:"discount"`
	PromoCode  string        `json:"promoCode,omitempty"`
	CustomerID string        `json:"customerId,omitempty"`
	Email      string        `json:"email,omitempty"`
	Items      []handoffLine `json:"items"`
}

type decisionResponse struct {
	Accepted  bool   `json:"accepted"`
	Reference string `json:"reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

// State exposes the breaker state for health reporting.
func (g *HTTPGateway) State() gobreaker.State {
	return g.breaker.State()
}

// Handoff posts the hand-off to /handoffs. 402 and 422 answers are rejections; other
// non-2xx statuses and transport failures are errors and count against the breaker.
func (g *HTTPGateway) Handoff(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	if handoff == nil {
		return nil, errors.New("hand-off is nil")
	}
	decision, err := g.breaker.Execute(func() (*domain.Decision, error) {
		return g.post(ctx, handoff)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	return decision, err
}

func (g *HTTPGateway) post(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	body, err := json.Marshal(toRequest(handoff))
	if err != nil {
		return nil, fmt.Errorf("encode hand-off: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/handoffs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", handoff.ID.String())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrGatewayUnavailable, err)
	}

	var decoded decisionResponse
	switch {
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		_ = json.Unmarshal(raw, &decoded)
		reason := firstNonEmpty(decoded.Reason, decoded.Message, http.StatusText(resp.StatusCode))
		return &domain.Decision{Accepted: false, Reason: reason}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrGatewayUnavailable, err)
	}
	return &domain.Decision{
		Accepted:  decoded.Accepted,
		Reference: decoded.Reference,
		Reason:    firstNonEmpty(decoded.Reason, decoded.Message),
	}, nil
}

func toRequest(handoff *domain.Handoff) handoffRequest {
	items := make([]handoffLine, 0, len(handoff.Lines))
	for _, line := range handoff.Lines {
		items = append(items, handoffLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
		})
	}
	totals := handoff.Totals
	return handoffRequest{
		HandoffID:  handoff.ID.String(),
		Amount:     handoff.Amount().StringFixed(2),
		Subtotal:   totals.Subtotal.StringFixed(2),
		Delivery:   totals.DeliveryFee.StringFixed(2),
		Tax:        totals.Tax.StringFixed(2),
		Discount:   totals.DiscountAmount.StringFixed(2),
		PromoCode:  handoff.Promotion.Code,
		CustomerID: handoff.Customer.ID,
		Email:      handoff.Customer.Email,
		Items:      items,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
