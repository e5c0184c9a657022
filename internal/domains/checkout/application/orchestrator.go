package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

// Orchestrator gates the move from cart to payment. At most one hand-off is outstanding
// at a time; the cart survives every failure path and is cleared only on acceptance.
type Orchestrator struct {
	cart      ports.CartSource
	payment   ports.PaymentService
	receipts  ports.ReceiptRepository
	events    ports.EventPublisher
	customers ports.CustomerLookup
	logger    *slog.Logger
	now       func() time.Time

	inProgress atomic.Bool
}

type Option func(*Orchestrator)

// WithReceiptRepository records accepted hand-offs.
func WithReceiptRepository(repo ports.ReceiptRepository) Option {
	return func(o *Orchestrator) { o.receipts = repo }
}

// WithEventPublisher emits checkout events after each decision.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(o *Orchestrator) { o.events = publisher }
}

// WithCustomerLookup attaches the signed-in customer to hand-offs.
func WithCustomerLookup(lookup ports.CustomerLookup) Option {
	return func(o *Orchestrator) { o.customers = lookup }
}

// WithLogger reports side effects that fail after the payment decision.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(cart ports.CartSource, payment ports.PaymentService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cart:    cart,
		payment: payment,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// InProgress reports whether a hand-off is awaiting the payment service.
func (o *Orchestrator) InProgress() bool {
	return o.inProgress.Load()
}

// BeginCheckout hands the current cart to the payment service.
//
// Empty carts fail with domain.ErrEmptyCart before any payment call. A concurrent call
// while one is outstanding fails with domain.ErrCheckoutInProgress. Rejections and
// payment errors wrap domain.ErrPaymentHandoffFailure and leave the cart untouched.
// Once the payment service accepts, the paid lines leave the cart (anything added while
// the payment was outstanding stays); recording the receipt and
// publishing the event are best effort from that point on.
func (o *Orchestrator) BeginCheckout(ctx context.Context) (*domain.Receipt, error) {
	if o.cart == nil || o.payment == nil {
		return nil, errors.New("checkout orchestrator not configured")
	}
	if o.cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if !o.inProgress.CompareAndSwap(false, true) {
		return nil, domain.ErrCheckoutInProgress
	}
	defer o.inProgress.Store(false)

	snapshot, totals := o.cart.Quote()
	handoff, err := domain.NewHandoff(snapshot, totals, o.customer(), o.now())
	if err != nil {
		return nil, err
	}

	decision, err := o.payment.Handoff(ctx, handoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPaymentHandoffFailure, err)
	}
	if decision == nil || !decision.Accepted {
		reason := "no reason given"
		if decision != nil && strings.TrimSpace(decision.Reason) != "" {
			reason = strings.TrimSpace(decision.Reason)
		}
		o.publish(ctx, domain.NewEvent(domain.EventRejected, handoff, decision, o.now()))
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentRejected, reason)
	}

	receipt, err := domain.NewReceipt(handoff, decision, o.now())
	if err != nil {
		return nil, err
	}
	o.cart.Settle(snapshot)
	if err := o.cart.Persist(ctx); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist settled cart",
			slog.String("handoff_id", handoff.ID.String()), slog.String("error", err.Error()))
	}
	if o.receipts != nil {
		if _, err := o.receipts.Save(ctx, receipt); err != nil {
			o.logger.LogAttrs(ctx, slog.LevelError, "failed to record receipt",
				slog.String("handoff_id", handoff.ID.String()), slog.String("error", err.Error()))
		}
	}
	o.publish(ctx, domain.NewEvent(domain.EventHandedOff, handoff, decision, o.now()))
	return receipt, nil
}

func (o *Orchestrator) Receipts(ctx context.Context) ([]*ports.ReceiptProjection, error) {
	if o.receipts == nil {
		return []*ports.ReceiptProjection{}, nil
	}
	return o.receipts.List(ctx)
}

func (o *Orchestrator) Receipt(ctx context.Context, handoffID uuid.UUID) (*ports.ReceiptProjection, error) {
	if o.receipts == nil {
		return nil, ports.ErrReceiptNotFound
	}
	return o.receipts.GetByHandoffID(ctx, handoffID)
}

func (o *Orchestrator) customer() domain.Customer {
	if o.customers == nil {
		return domain.Customer{}
	}
	customer, ok := o.customers.Customer()
	if !ok {
		return domain.Customer{}
	}
	return customer
}

func (o *Orchestrator) publish(ctx context.Context, event domain.Event) {
	if o.events == nil {
		return
	}
	if err := o.events.Publish(ctx, event); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish checkout event",
			slog.String("type", string(event.Type)),
			slog.String("handoff_id", event.HandoffID.String()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Orchestrator)(nil)
