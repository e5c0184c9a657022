package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/foodio-storefront/internal/app/storefront"
	platformobservability "github.com/Apurer/foodio-storefront/internal/platform/observability"
	checkoutactivities "github.com/Apurer/foodio-storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/foodio-storefront/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "foodio-payment-worker"
	if err := storefront.LoadDotEnv(); err != nil {
		log.Fatalf("failed to read .env: %v", err)
	}
	cfg, err := storefront.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// The worker always talks to the gateway directly.
	paymentActivities := checkoutactivities.NewActivities(storefront.NewPaymentGateway(cfg, logger))

	temporalClient, err := storefront.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.PaymentHandoffTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.PaymentHandoffWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.PaymentHandoffWorkflowName})
	w.RegisterActivityWithOptions(paymentActivities.RequestPayment, activity.RegisterOptions{Name: checkoutactivities.RequestPaymentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.PaymentHandoffTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
