package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartapp "github.com/Apurer/foodio-storefront/internal/domains/cart/application"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/events"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/adapters/memory"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

type fakePayment struct {
	mu       sync.Mutex
	calls    int
	seen     []*domain.Handoff
	decision *domain.Decision
	err      error
	release  chan struct{}
	entered  chan struct{}
}

func (p *fakePayment) Handoff(ctx context.Context, handoff *domain.Handoff) (*domain.Decision, error) {
	p.mu.Lock()
	p.calls++
	p.seen = append(p.seen, handoff)
	p.mu.Unlock()
	if p.entered != nil {
		p.entered <- struct{}{}
	}
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.decision, p.err
}

func (p *fakePayment) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type staticCustomer struct{ customer domain.Customer }

func (s staticCustomer) Customer() (domain.Customer, bool) { return s.customer, s.customer.ID != "" }

type failingReceipts struct{ ports.ReceiptRepository }

func (failingReceipts) Save(context.Context, *domain.Receipt) (*ports.ReceiptProjection, error) {
	return nil, errors.New("db down")
}

func filledLedger(t *testing.T) *cartapp.Ledger {
	t.Helper()
	ledger := cartapp.NewLedger()
	require.NoError(t, ledger.AddItem("D1", "Thali", decimal.NewFromInt(300), 2))
	return ledger
}

func TestBeginCheckout_EmptyCartMakesNoPaymentCall(t *testing.T) {
	payment := &fakePayment{decision: &domain.Decision{Accepted: true}}
	orchestrator := NewOrchestrator(cartapp.NewLedger(), payment)

	_, err := orchestrator.BeginCheckout(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.Zero(t, payment.callCount())
	require.False(t, orchestrator.InProgress())
}

func TestBeginCheckout_AcceptedClearsCartAndRecords(t *testing.T) {
	ledger := filledLedger(t)
	payment := &fakePayment{decision: &domain.Decision{Accepted: true, Reference: "pay-7"}}
	receipts := memory.NewReceiptRepository()
	publisher := events.NewMemoryPublisher()
	orchestrator := NewOrchestrator(ledger, payment,
		WithReceiptRepository(receipts),
		WithEventPublisher(publisher),
		WithCustomerLookup(staticCustomer{domain.Customer{ID: "u-1", Email: "asha@example.com"}}),
	)

	receipt, err := orchestrator.BeginCheckout(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pay-7", receipt.Reference)
	require.Equal(t, "630.00", receipt.Totals.GrandTotal.StringFixed(2))
	require.Equal(t, "u-1", receipt.Customer.ID)
	require.True(t, ledger.IsEmpty())

	require.Len(t, payment.seen, 1)
	require.Equal(t, "630.00", payment.seen[0].Amount().StringFixed(2))

	stored, err := orchestrator.Receipt(context.Background(), receipt.HandoffID)
	require.NoError(t, err)
	require.Equal(t, "pay-7", stored.Entity.Reference)
	list, err := orchestrator.Receipts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	published := publisher.Events()
	require.Len(t, published, 1)
	require.Equal(t, domain.EventHandedOff, published[0].Type)
	require.Equal(t, receipt.HandoffID, published[0].HandoffID)
}

func TestBeginCheckout_RejectionPreservesCart(t *testing.T) {
	ledger := filledLedger(t)
	require.NoError(t, ledger.ApplyPromotion("FIRST10"))
	payment := &fakePayment{decision: &domain.Decision{Accepted: false, Reason: "card declined"}}
	publisher := events.NewMemoryPublisher()
	receipts := memory.NewReceiptRepository()
	orchestrator := NewOrchestrator(ledger, payment, WithEventPublisher(publisher), WithReceiptRepository(receipts))

	before := ledger.Snapshot()
	_, err := orchestrator.BeginCheckout(context.Background())
	require.ErrorIs(t, err, domain.ErrPaymentRejected)
	require.ErrorIs(t, err, domain.ErrPaymentHandoffFailure)
	require.Contains(t, err.Error(), "card declined")
	require.Equal(t, before, ledger.Snapshot())
	require.False(t, orchestrator.InProgress())

	list, err := orchestrator.Receipts(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
	published := publisher.Events()
	require.Len(t, published, 1)
	require.Equal(t, domain.EventRejected, published[0].Type)
	require.Equal(t, "card declined", published[0].Reason)
}

func TestBeginCheckout_PaymentErrorPreservesCart(t *testing.T) {
	ledger := filledLedger(t)
	boom := errors.New("gateway timeout")
	orchestrator := NewOrchestrator(ledger, &fakePayment{err: boom})

	_, err := orchestrator.BeginCheckout(context.Background())
	require.ErrorIs(t, err, domain.ErrPaymentHandoffFailure)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, domain.ErrPaymentRejected)
	require.Equal(t, 2, ledger.ItemCount())
}

func TestBeginCheckout_NilDecisionIsRejection(t *testing.T) {
	ledger := filledLedger(t)
	_, err := NewOrchestrator(ledger, &fakePayment{}).BeginCheckout(context.Background())
	require.ErrorIs(t, err, domain.ErrPaymentRejected)
	require.False(t, ledger.IsEmpty())
}

func TestBeginCheckout_ConcurrentCallsMakeOnePaymentCall(t *testing.T) {
	ledger := filledLedger(t)
	payment := &fakePayment{
		decision: &domain.Decision{Accepted: true, Reference: "once"},
		release:  make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	orchestrator := NewOrchestrator(ledger, payment)

	firstDone := make(chan error, 1)
	go func() {
		_, err := orchestrator.BeginCheckout(context.Background())
		firstDone <- err
	}()
	select {
	case <-payment.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first checkout never reached the payment service")
	}
	require.True(t, orchestrator.InProgress())

	var refused atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := orchestrator.BeginCheckout(context.Background()); errors.Is(err, domain.ErrCheckoutInProgress) {
				refused.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(5), refused.Load())

	close(payment.release)
	require.NoError(t, <-firstDone)
	require.Equal(t, 1, payment.callCount())
	require.False(t, orchestrator.InProgress())
	require.True(t, ledger.IsEmpty())
}

func TestBeginCheckout_KeepsItemsAddedWhilePaymentIsOutstanding(t *testing.T) {
	ledger := filledLedger(t)
	require.NoError(t, ledger.ApplyPromotion("FIRST10"))
	payment := &fakePayment{
		decision: &domain.Decision{Accepted: true, Reference: "pay-9"},
		release:  make(chan struct{}),
		entered:  make(chan struct{}, 1),
	}
	orchestrator := NewOrchestrator(ledger, payment)

	done := make(chan error, 1)
	go func() {
		_, err := orchestrator.BeginCheckout(context.Background())
		done <- err
	}()
	select {
	case <-payment.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("checkout never reached the payment service")
	}
	require.NoError(t, ledger.AddItem("D2", "Naan", decimal.NewFromInt(30), 2))
	require.NoError(t, ledger.AddItem("D1", "Thali", decimal.NewFromInt(300), 1))
	close(payment.release)
	require.NoError(t, <-done)

	require.Len(t, payment.seen[0].Lines, 1)
	lines := ledger.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, "D1", lines[0].ItemID)
	require.Equal(t, 1, lines[0].Quantity)
	require.Equal(t, "D2", lines[1].ItemID)
	require.Equal(t, 2, lines[1].Quantity)
	require.Empty(t, ledger.Snapshot().Promotion.Code)
}

func TestBeginCheckout_ReceiptFailureDoesNotFailCheckout(t *testing.T) {
	ledger := filledLedger(t)
	orchestrator := NewOrchestrator(ledger, &fakePayment{decision: &domain.Decision{Accepted: true}},
		WithReceiptRepository(failingReceipts{}))

	receipt, err := orchestrator.BeginCheckout(context.Background())
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.True(t, ledger.IsEmpty())
}

func TestBeginCheckout_UsesClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	orchestrator := NewOrchestrator(filledLedger(t), &fakePayment{decision: &domain.Decision{Accepted: true}}, WithClock(func() time.Time { return fixed }))

	receipt, err := orchestrator.BeginCheckout(context.Background())
	require.NoError(t, err)
	require.Equal(t, fixed, receipt.AcceptedAt)
}

func TestReceipt_WithoutRepository(t *testing.T) {
	orchestrator := NewOrchestrator(cartapp.NewLedger(), &fakePayment{})
	list, err := orchestrator.Receipts(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}
