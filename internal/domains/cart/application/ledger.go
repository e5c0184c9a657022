package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/cart/ports"
)

// DefaultSnapshotKey names the single cart a storefront process owns.
const DefaultSnapshotKey = "cart:default"

// Ledger is the authoritative cart. All state sits behind one mutex; nothing blocks on I/O
// except Persist and Hydrate, which copy state out or in before touching the store.
// storeMu orders store writes so the last snapshot taken is the last one written.
type Ledger struct {
	storeMu sync.Mutex

	mu       sync.Mutex
	cart     *domain.Cart
	resolver ports.PromotionResolver
	policy   domain.PricingPolicy

	snapshots   ports.SnapshotStore
	snapshotKey string
}

type Option func(*Ledger)

// WithPricingPolicy overrides delivery and tax constants.
func WithPricingPolicy(policy domain.PricingPolicy) Option {
	return func(l *Ledger) { l.policy = policy }
}

// WithPromotionResolver swaps the promotion lookup.
func WithPromotionResolver(resolver ports.PromotionResolver) Option {
	return func(l *Ledger) {
		if resolver != nil {
			l.resolver = resolver
		}
	}
}

// WithSnapshotStore enables Persist and Hydrate under key.
func WithSnapshotStore(store ports.SnapshotStore, key string) Option {
	return func(l *Ledger) {
		l.snapshots = store
		if key != "" {
			l.snapshotKey = key
		}
	}
}

func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		cart:        domain.NewCart(),
		resolver:    domain.DefaultPromotionRules(),
		policy:      domain.DefaultPricingPolicy(),
		snapshotKey: DefaultSnapshotKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *Ledger) AddItem(itemID, name string, unitPrice decimal.Decimal, delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return mapError(l.cart.AddItem(itemID, name, unitPrice, delta))
}

func (l *Ledger) SetQuantity(itemID string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return mapError(l.cart.SetQuantity(itemID, quantity))
}

func (l *Ledger) RemoveItem(itemID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cart.Remove(itemID)
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cart.Clear()
}

// Settle removes the paid lines of a checked-out snapshot and drops the promotion.
// Edits made after the snapshot was taken are kept.
func (l *Ledger) Settle(paid domain.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cart.Settle(paid.Lines)
}

// ApplyPromotion sets the matched rate. An unknown or empty code resets the rate to zero
// and reports domain.ErrInvalidPromotion.
func (l *Ledger) ApplyPromotion(code string) error {
	normalized := domain.NormalizeCode(code)
	rate, ok := l.resolver.Resolve(normalized)
	l.mu.Lock()
	defer l.mu.Unlock()
	if normalized == "" || !ok {
		l.cart.ResetPromotion()
		return fmt.Errorf("%w: %q", domain.ErrInvalidPromotion, normalized)
	}
	l.cart.ApplyPromotion(normalized, rate)
	return nil
}

func (l *Ledger) ComputeTotals() domain.Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.ComputeTotals(l.cart, l.policy)
}

func (l *Ledger) Lines() []domain.Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.Lines()
}

func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.ItemCount()
}

func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.Len() == 0
}

func (l *Ledger) Snapshot() domain.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.Snapshot()
}

func (l *Ledger) Quote() (domain.Snapshot, domain.Totals) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cart.Snapshot(), domain.ComputeTotals(l.cart, l.policy)
}

// Persist writes the current cart to the snapshot store. An empty cart deletes the snapshot.
func (l *Ledger) Persist(ctx context.Context) error {
	if l.snapshots == nil {
		return nil
	}
	l.storeMu.Lock()
	defer l.storeMu.Unlock()
	snapshot := l.Snapshot()
	if snapshot.IsEmpty() && snapshot.Promotion.Code == "" {
		return l.snapshots.Delete(ctx, l.snapshotKey)
	}
	return l.snapshots.Save(ctx, l.snapshotKey, snapshot)
}

// Hydrate replaces the in-memory cart with the stored snapshot, if any. A stored
// promotion is resolved again against the current rules; unknown codes are dropped.
func (l *Ledger) Hydrate(ctx context.Context) error {
	if l.snapshots == nil {
		return nil
	}
	l.storeMu.Lock()
	defer l.storeMu.Unlock()
	snapshot, err := l.snapshots.Load(ctx, l.snapshotKey)
	if errors.Is(err, ports.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cart snapshot: %w", err)
	}
	cart, err := domain.RestoreCart(snapshot)
	if err != nil {
		return mapError(err)
	}
	if code := cart.Promotion().Code; code != "" {
		if rate, ok := l.resolver.Resolve(code); ok {
			cart.ApplyPromotion(domain.NormalizeCode(code), rate)
		} else {
			cart.ResetPromotion()
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cart = cart
	return nil
}

var _ ports.Ledger = (*Ledger)(nil)
