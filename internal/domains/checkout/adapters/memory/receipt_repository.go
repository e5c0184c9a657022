package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
	"github.com/Apurer/foodio-storefront/internal/shared/projection"
)

var _ ports.ReceiptRepository = (*ReceiptRepository)(nil)

// ReceiptRepository is an in-memory receipt persistence adapter.
type ReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[uuid.UUID]*ports.ReceiptProjection
	now      func() time.Time
}

func NewReceiptRepository() *ReceiptRepository {
	return &ReceiptRepository{receipts: map[uuid.UUID]*ports.ReceiptProjection{}, now: time.Now}
}

// Save stores the receipt once; saving the same hand-off again returns the original.
func (r *ReceiptRepository) Save(_ context.Context, receipt *domain.Receipt) (*ports.ReceiptProjection, error) {
	if receipt == nil {
		return nil, errors.New("receipt is nil")
	}
	if receipt.HandoffID == uuid.Nil {
		return nil, errors.New("receipt hand-off id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.receipts[receipt.HandoffID]; ok {
		return cloneProjection(existing), nil
	}
	now := r.now().UTC()
	stored := projection.New(cloneReceipt(receipt), now, now)
	r.receipts[receipt.HandoffID] = stored
	return cloneProjection(stored), nil
}

func (r *ReceiptRepository) GetByHandoffID(_ context.Context, id uuid.UUID) (*ports.ReceiptProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.receipts[id]
	if !ok {
		return nil, ports.ErrReceiptNotFound
	}
	return cloneProjection(stored), nil
}

// List returns receipts newest first.
func (r *ReceiptRepository) List(_ context.Context) ([]*ports.ReceiptProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.ReceiptProjection, 0, len(r.receipts))
	for _, stored := range r.receipts {
		list = append(list, cloneProjection(stored))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Entity.AcceptedAt.After(list[j].Entity.AcceptedAt)
	})
	return list, nil
}

func cloneReceipt(receipt *domain.Receipt) *domain.Receipt {
	clone := *receipt
	clone.Lines = append([]cartdomain.Line(nil), receipt.Lines...)
	return &clone
}

func cloneProjection(p *ports.ReceiptProjection) *ports.ReceiptProjection {
	return &ports.ReceiptProjection{Entity: cloneReceipt(p.Entity), Metadata: p.Metadata}
}
