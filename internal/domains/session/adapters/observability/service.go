package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

const tracerName = "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/observability/service"

// Service decorates the session store with tracing, logging, and metrics.
// Passwords, OTP codes and credential tokens are never attached to spans or logs.
type Service struct {
	inner   sessionports.Service
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

// New wraps the core session service.
func New(inner sessionports.Service, opts ...Option) sessionports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, email, password string) (*sessiondomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Login", trace.WithAttributes(attribute.String("session.email", email)))
	defer span.End()
	s.logInfo(ctx, "logging in", slog.String("email", email))
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordFailure(ctx, sessionports.OpLogin)
		return result, s.handleError(ctx, span, err, "login failed", slog.String("email", email))
	}
	s.recordOutcome(ctx, span, sessionports.OpLogin, result)
	return result, nil
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*sessiondomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Register", trace.WithAttributes(attribute.String("session.email", email)))
	defer span.End()
	s.logInfo(ctx, "registering account", slog.String("email", email))
	result, err := s.inner.Register(ctx, name, email, password)
	if err != nil {
		s.metrics.recordFailure(ctx, sessionports.OpRegister)
		return result, s.handleError(ctx, span, err, "registration failed", slog.String("email", email))
	}
	s.recordOutcome(ctx, span, sessionports.OpRegister, result)
	return result, nil
}

func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*sessiondomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.VerifyOTP", trace.WithAttributes(attribute.String("session.email", email)))
	defer span.End()
	result, err := s.inner.VerifyOTP(ctx, email, code)
	if err != nil {
		s.metrics.recordFailure(ctx, sessionports.OpVerifyOTP)
		return result, s.handleError(ctx, span, err, "otp verification failed", slog.String("email", email))
	}
	s.recordOutcome(ctx, span, sessionports.OpVerifyOTP, result)
	return result, nil
}

func (s *Service) Logout(ctx context.Context) *sessiondomain.Session {
	ctx, span := s.tracer.Start(ctx, "SessionService.Logout")
	defer span.End()
	result := s.inner.Logout(ctx)
	s.metrics.recordLogout(ctx)
	s.logInfo(ctx, "logged out")
	return result
}

func (s *Service) RestoreSession(ctx context.Context) (*sessiondomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.RestoreSession")
	defer span.End()
	result, err := s.inner.RestoreSession(ctx)
	if err != nil {
		s.metrics.recordFailure(ctx, sessionports.OpRestore)
		return result, s.handleError(ctx, span, err, "session restore failed")
	}
	s.recordOutcome(ctx, span, sessionports.OpRestore, result)
	return result, nil
}

func (s *Service) SaveAddress(ctx context.Context, address sessiondomain.Address) (*sessiondomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.SaveAddress", trace.WithAttributes(attribute.String("address.city", address.City)))
	defer span.End()
	result, err := s.inner.SaveAddress(ctx, address)
	if err != nil {
		s.metrics.recordFailure(ctx, sessionports.OpSaveAddress)
		return result, s.handleError(ctx, span, err, "failed to save address", slog.String("city", address.City))
	}
	s.logInfo(ctx, "address saved", slog.String("city", address.City))
	return result, nil
}

func (s *Service) Snapshot() *sessiondomain.Session {
	return s.inner.Snapshot()
}

func (s *Service) InFlight(op sessionports.Operation) bool {
	return s.inner.InFlight(op)
}

func (s *Service) recordOutcome(ctx context.Context, span trace.Span, op sessionports.Operation, result *sessiondomain.Session) {
	if result == nil {
		return
	}
	span.SetAttributes(attribute.String("session.status", string(result.Status)))
	if err := result.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logError(ctx, "session invariant violated", err, slog.String("operation", string(op)))
		return
	}
	if result.Status == sessiondomain.StatusAuthenticated {
		s.metrics.recordAuthenticated(ctx, op)
	}
	s.logInfo(ctx, "session updated", slog.String("operation", string(op)), slog.String("status", string(result.Status)))
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	authenticated metric.Int64Counter
	failures      metric.Int64Counter
	logouts       metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	authenticated, _ := m.Int64Counter("session.service.authenticated", metric.WithDescription("Number of operations that ended authenticated"))
	failures, _ := m.Int64Counter("session.service.failures", metric.WithDescription("Number of failed session operations"))
	logouts, _ := m.Int64Counter("session.service.logouts", metric.WithDescription("Number of logouts"))
	return serviceMetrics{authenticated: authenticated, failures: failures, logouts: logouts}
}

func (m serviceMetrics) recordAuthenticated(ctx context.Context, op sessionports.Operation) {
	if m.authenticated != nil {
		m.authenticated.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(op))))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op sessionports.Operation) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(op))))
	}
}

func (m serviceMetrics) recordLogout(ctx context.Context) {
	if m.logouts != nil {
		m.logouts.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ sessionports.Service = (*Service)(nil)
