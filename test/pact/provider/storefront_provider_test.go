//go:build pact
// +build pact

package provider_test

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	storefrontserver "github.com/Apurer/foodio-storefront/go"
	cartapp "github.com/Apurer/foodio-storefront/internal/domains/cart/application"
	checkoutmemory "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/memory"
	checkoutpayment "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/payment"
	checkoutworkflows "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/foodio-storefront/internal/domains/checkout/application"
	sessionmemory "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/memory"
	sessionapp "github.com/Apurer/foodio-storefront/internal/domains/session/application"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
	pacttest "github.com/Apurer/foodio-storefront/test/pact"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t, pacttest.StorefrontConsumerName, pacttest.StorefrontProviderName))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCartEmpty: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.ledger.Clear()
			return nil, nil
		},
		pacttest.StateCartHasDish: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.ledger.Clear()
			if setup {
				return nil, app.ledger.AddItem(pacttest.DishID, "Paneer Tikka", decimal.RequireFromString(pacttest.DishPrice), 2)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.StorefrontProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.ledger.Clear()
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	ledger *cartapp.Ledger
	server *httptest.Server
}

// unreachableAuth is never called; the storefront contract covers cart and checkout only.
type unreachableAuth struct{ sessionports.AuthService }

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	ledger := cartapp.NewLedger()
	payment := checkoutworkflows.NewInlinePaymentHandoff(checkoutpayment.NewStubGateway(decimal.Zero))
	orchestrator := checkoutapp.NewOrchestrator(ledger, payment,
		checkoutapp.WithReceiptRepository(checkoutmemory.NewReceiptRepository()))

	handlers := storefrontserver.ApiHandleFunctions{
		SessionAPI:  storefrontserver.NewSessionAPI(sessionapp.NewStore(unreachableAuth{}, sessionmemory.NewCredentialStore())),
		CartAPI:     storefrontserver.NewCartAPI(ledger, nil),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(orchestrator),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{ledger: ledger, server: server}
}
