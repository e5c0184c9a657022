package events

import (
	"context"
	"sync"

	"github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/checkout/ports"
)

var _ ports.EventPublisher = (*MemoryPublisher)(nil)

// MemoryPublisher keeps published events in process. Used when no broker is configured.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}
