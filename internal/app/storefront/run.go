package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	storefrontserver "github.com/Apurer/foodio-storefront/go"
	"github.com/Apurer/foodio-storefront/internal/clients/http/authapi"
	cartmemory "github.com/Apurer/foodio-storefront/internal/domains/cart/adapters/memory"
	cartredis "github.com/Apurer/foodio-storefront/internal/domains/cart/adapters/redis"
	cartapp "github.com/Apurer/foodio-storefront/internal/domains/cart/application"
	cartports "github.com/Apurer/foodio-storefront/internal/domains/cart/ports"
	checkoutevents "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/events"
	checkoutmemory "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/observability"
	checkoutpayment "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/payment"
	checkoutpostgres "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/foodio-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	sessionmemory "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/memory"
	sessionobs "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/observability"
	sessionpostgres "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/persistence/postgres"
	sessionapp "github.com/Apurer/foodio-storefront/internal/domains/session/application"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
	"github.com/Apurer/foodio-storefront/internal/platform/migrations"
	platformobservability "github.com/Apurer/foodio-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/foodio-storefront/internal/platform/postgres"
	platformredis "github.com/Apurer/foodio-storefront/internal/platform/redis"
)

const serviceName = "foodio-storefront"

// Run boots the storefront HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectPostgres(ctx, cfg, logger)
	defer cleanupDB()

	sessionService, credentials, err := buildSessionService(cfg, db, instruments)
	if err != nil {
		return err
	}
	ledger, cleanupRedis := buildLedger(ctx, cfg, logger)
	defer cleanupRedis()

	payment, breakerState, cleanupPayment := buildPaymentService(cfg, instruments)
	defer cleanupPayment()
	publisher, cleanupPublisher := buildEventPublisher(cfg, logger)
	defer cleanupPublisher()

	var receipts checkoutports.ReceiptRepository = checkoutmemory.NewReceiptRepository()
	if db != nil {
		receipts = checkoutpostgres.NewReceiptRepository(db)
	}
	checkoutService := checkoutobs.New(
		checkoutapp.NewOrchestrator(ledger, payment,
			checkoutapp.WithReceiptRepository(receipts),
			checkoutapp.WithEventPublisher(publisher),
			checkoutapp.WithCustomerLookup(NewSessionCustomers(sessionService)),
			checkoutapp.WithLogger(logger),
		),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	// Validate any persisted credential once before serving.
	if sessionports.Peek(ctx, credentials) {
		if _, err := sessionService.RestoreSession(ctx); err != nil {
			logger.Warn("stored session could not be restored", slog.String("error", err.Error()))
		}
	} else {
		logger.Info("no stored credential, starting signed out")
	}

	handlers := storefrontserver.ApiHandleFunctions{
		SessionAPI:  storefrontserver.NewSessionAPI(sessionService),
		CartAPI:     storefrontserver.NewCartAPI(ledger, logger),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkoutService),
		HealthAPI:   storefrontserver.NewHealthAPI(breakerState),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down storefront API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := ledger.Persist(shutdownCtx); err != nil {
		logger.Warn("failed to persist cart on shutdown", slog.String("error", err.Error()))
	}
	return nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return nil, cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to apply migrations, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return nil, func() {}
	}
	return db, cleanup
}

func buildSessionService(cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (sessionports.Service, sessionports.CredentialStore, error) {
	httpClient := &http.Client{
		Timeout:   cfg.AuthTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	auth, err := authapi.NewClient(cfg.AuthAPIURL, httpClient)
	if err != nil {
		return nil, nil, err
	}
	var credentials sessionports.CredentialStore = sessionmemory.NewCredentialStore()
	if db != nil {
		credentials = sessionpostgres.NewCredentialStore(db, cfg.CredentialKey, cfg.CredentialTTL)
	}
	return sessionobs.New(
		sessionapp.NewStore(auth, credentials),
		sessionobs.WithLogger(instruments.Logger),
		sessionobs.WithTracer(instruments.Tracer("internal.session.application")),
		sessionobs.WithMeter(instruments.Meter("internal.session.application")),
	), credentials, nil
}

func buildLedger(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.Ledger, func()) {
	var snapshots cartports.SnapshotStore = cartmemory.NewSnapshotStore()
	client, cleanup := platformredis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if client != nil {
		snapshots = cartredis.NewSnapshotStore(client, cartredis.DefaultSnapshotTTL)
	}
	ledger := cartapp.NewLedger(
		cartapp.WithPricingPolicy(cfg.Pricing),
		cartapp.WithPromotionResolver(cfg.Promotions),
		cartapp.WithSnapshotStore(snapshots, cfg.CartKey),
	)
	if err := ledger.Hydrate(ctx); err != nil {
		logger.Warn("failed to restore cart snapshot, starting empty", slog.String("error", err.Error()))
	}
	return ledger, cleanup
}

// buildPaymentService also returns the breaker state of the in-process HTTP gateway, or nil
// when the hand-off runs on a Temporal worker or against the stub.
func buildPaymentService(cfg Config, instruments *platformobservability.Instruments) (checkoutports.PaymentService, storefrontserver.BreakerStateFunc, func()) {
	logger := instruments.Logger
	temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client")
	if err == nil {
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		return checkoutworkflows.NewTemporalPaymentHandoff(temporalClient), nil, temporalClient.Close
	}
	logger.Warn("Temporal workflows unavailable, running payment hand-off inline", slog.String("error", err.Error()))
	gateway := NewPaymentGateway(cfg, logger)
	var breakerState storefrontserver.BreakerStateFunc
	if httpGateway, ok := gateway.(*checkoutpayment.HTTPGateway); ok {
		breakerState = func() string { return httpGateway.State().String() }
	}
	return checkoutworkflows.NewInlinePaymentHandoff(gateway), breakerState, func() {}
}

// NewPaymentGateway returns the HTTP gateway when PAYMENT_URL is set and the stub otherwise.
func NewPaymentGateway(cfg Config, logger *slog.Logger) checkoutports.PaymentService {
	if cfg.PaymentURL == "" {
		logger.Warn("PAYMENT_URL not set, using stub payment gateway")
		return checkoutpayment.NewStubGateway(cfg.PaymentStubMax)
	}
	logger.Info("payment gateway configured", slog.String("url", cfg.PaymentURL))
	return checkoutpayment.NewHTTPGateway(cfg.PaymentURL,
		&http.Client{Timeout: 15 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		breakerSettings(cfg, logger))
}

func buildEventPublisher(cfg Config, logger *slog.Logger) (checkoutports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, checkout events stay in memory")
		return checkoutevents.NewMemoryPublisher(), func() {}
	}
	publisher, err := checkoutevents.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
	if err != nil {
		logger.Warn("failed to configure kafka publisher, checkout events stay in memory", slog.String("error", err.Error()))
		return checkoutevents.NewMemoryPublisher(), func() {}
	}
	logger.Info("checkout events publishing to kafka", slog.String("topic", cfg.KafkaTopic))
	return publisher, func() { _ = publisher.Close() }
}

// ConnectTemporal dials the Temporal frontend with tracing and structured logging attached.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
