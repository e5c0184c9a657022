package projection

import "time"

// Metadata captures persistence timestamps shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection is an aggregate as read back from a store, with its timestamps.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New pairs an entity with its timestamps. A zero updatedAt falls back to createdAt.
func New[T any](entity T, createdAt, updatedAt time.Time) *Projection[T] {
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return &Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt}}
}
