package ports

import (
	"context"
	"errors"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
)

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// SnapshotStore persists cart snapshots between process runs.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (domain.Snapshot, error)
	Save(ctx context.Context, key string, snapshot domain.Snapshot) error
	Delete(ctx context.Context, key string) error
}
