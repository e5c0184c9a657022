package memory

import (
	"context"
	"sync"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps cart snapshots in process memory.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: map[string]domain.Snapshot{}}
}

func (s *SnapshotStore) Load(_ context.Context, key string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[key]
	if !ok {
		return domain.Snapshot{}, ports.ErrSnapshotNotFound
	}
	return cloneSnapshot(snapshot), nil
}

func (s *SnapshotStore) Save(_ context.Context, key string, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = cloneSnapshot(snapshot)
	return nil
}

func (s *SnapshotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}

func cloneSnapshot(snapshot domain.Snapshot) domain.Snapshot {
	lines := make([]domain.Line, len(snapshot.Lines))
	copy(lines, snapshot.Lines)
	return domain.Snapshot{Lines: lines, Promotion: snapshot.Promotion}
}
