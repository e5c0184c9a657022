package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	checkoutdomain "github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

const tracerName = "github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout orchestrator with tracing, logging, and metrics.
type Service struct {
	inner   checkoutports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the checkout service.
func New(inner checkoutports.Service, opts ...Option) checkoutports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) BeginCheckout(ctx context.Context) (*checkoutdomain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.BeginCheckout")
	defer span.End()
	start := time.Now()
	receipt, err := s.inner.BeginCheckout(ctx)
	s.metrics.recordDuration(ctx, time.Since(start))
	if err != nil {
		outcome := outcomeOf(err)
		s.metrics.recordOutcome(ctx, outcome)
		span.SetAttributes(attribute.String("checkout.outcome", outcome))
		if outcome == "rejected" || outcome == "failed" {
			return nil, s.handleError(ctx, span, err, "checkout failed", slog.String("outcome", outcome))
		}
		// Empty carts and duplicate taps are user errors, not faults.
		s.logger.LogAttrs(ctx, slog.LevelInfo, "checkout refused", slog.String("outcome", outcome), slog.String("reason", err.Error()))
		return nil, err
	}
	s.metrics.recordOutcome(ctx, "accepted")
	span.SetAttributes(
		attribute.String("checkout.outcome", "accepted"),
		attribute.String("checkout.handoff_id", receipt.HandoffID.String()),
		attribute.String("checkout.grand_total", receipt.Totals.GrandTotal.StringFixed(2)),
	)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "checkout accepted",
		slog.String("handoff_id", receipt.HandoffID.String()),
		slog.String("reference", receipt.Reference),
		slog.String("grand_total", receipt.Totals.GrandTotal.StringFixed(2)))
	return receipt, nil
}

func (s *Service) InProgress() bool {
	return s.inner.InProgress()
}

func (s *Service) Receipts(ctx context.Context) ([]*checkoutports.ReceiptProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Receipts")
	defer span.End()
	list, err := s.inner.Receipts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list receipts")
	}
	span.SetAttributes(attribute.Int("checkout.receipts", len(list)))
	return list, nil
}

func (s *Service) Receipt(ctx context.Context, handoffID uuid.UUID) (*checkoutports.ReceiptProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Receipt", trace.WithAttributes(attribute.String("checkout.handoff_id", handoffID.String())))
	defer span.End()
	receipt, err := s.inner.Receipt(ctx, handoffID)
	if err != nil {
		if errors.Is(err, checkoutports.ErrReceiptNotFound) {
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to load receipt", slog.String("handoff_id", handoffID.String()))
	}
	return receipt, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, checkoutdomain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, checkoutdomain.ErrCheckoutInProgress):
		return "in_progress"
	case errors.Is(err, checkoutdomain.ErrPaymentRejected):
		return "rejected"
	default:
		return "failed"
	}
}

type serviceMetrics struct {
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	outcomes, _ := m.Int64Counter("checkout.service.outcomes", metric.WithDescription("Checkout attempts by outcome"))
	duration, _ := m.Float64Histogram("checkout.service.duration", metric.WithDescription("Time spent awaiting the payment decision"), metric.WithUnit("s"))
	return serviceMetrics{outcomes: outcomes, duration: duration}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, outcome string) {
	if m.outcomes != nil {
		m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordDuration(ctx context.Context, d time.Duration) {
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds())
	}
}

var _ checkoutports.Service = (*Service)(nil)
