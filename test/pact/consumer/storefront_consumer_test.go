//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/foodio-storefront/test/pact"
)

func TestStorefrontUIContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.StorefrontConsumerName,
		Provider: pacttest.StorefrontProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	totals := matchers.Map{
		"itemCount":      matchers.Like(2),
		"subtotal":       matchers.Like("600.00"),
		"deliveryFee":    matchers.Like("0.00"),
		"tax":            matchers.Like("30.00"),
		"discountRate":   matchers.Like("0.00"),
		"discountAmount": matchers.Like("0.00"),
		"grandTotal":     matchers.Like("630.00"),
	}

	pact.AddInteraction().
		Given(pacttest.StateCartEmpty).
		UponReceiving("a request to add a dish to the cart").
		WithRequest("POST", "/v1/cart/items", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"itemId":   matchers.S(pacttest.DishID),
				"name":     matchers.S("Paneer Tikka"),
				"price":    matchers.S(pacttest.DishPrice),
				"quantity": matchers.Like(2),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"lines": matchers.EachLike(matchers.Map{
					"itemId":    matchers.Like(pacttest.DishID),
					"unitPrice": matchers.Like("300.00"),
					"quantity":  matchers.Like(2),
					"lineTotal": matchers.Like("600.00"),
				}, 1),
				"totals": totals,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartHasDish).
		UponReceiving("a request for the current cart").
		WithRequest("GET", "/v1/cart").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"lines": matchers.EachLike(matchers.Map{
					"itemId":   matchers.Like(pacttest.DishID),
					"quantity": matchers.Like(2),
				}, 1),
				"totals": totals,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCartEmpty).
		UponReceiving("a checkout with an empty cart").
		WithRequest("POST", "/v1/checkout").
		WillRespondWith(http.StatusUnprocessableEntity, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"title":  matchers.Like("Cart Is Empty"),
				"status": matchers.Like(http.StatusUnprocessableEntity),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		baseURL := fmt.Sprintf("http://%s:%d", config.Host, config.Port)
		client := &http.Client{Timeout: 5 * time.Second}

		body, err := json.Marshal(map[string]any{
			"itemId":   pacttest.DishID,
			"name":     "Paneer Tikka",
			"price":    pacttest.DishPrice,
			"quantity": 2,
		})
		if err != nil {
			return err
		}
		resp, err := client.Post(baseURL+"/v1/cart/items", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("add item: unexpected status %d", resp.StatusCode)
		}

		resp, err = client.Get(baseURL + "/v1/cart")
		if err != nil {
			return fmt.Errorf("get cart: %w", err)
		}
		var cart struct {
			Lines []struct {
				ItemID string `json:"itemId"`
			} `json:"lines"`
		}
		err = json.NewDecoder(resp.Body).Decode(&cart)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode cart: %w", err)
		}
		if len(cart.Lines) == 0 {
			return fmt.Errorf("expected cart lines")
		}

		resp, err = client.Post(baseURL+"/v1/checkout", "application/json", nil)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			return fmt.Errorf("checkout: unexpected status %d", resp.StatusCode)
		}
		return nil
	})
	require.NoError(t, err)
}
