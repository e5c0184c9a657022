package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/cart/ports"
)

// DefaultSnapshotTTL bounds how long an abandoned cart survives.
const DefaultSnapshotTTL = 7 * 24 * time.Hour

const keyPrefix = "storefront:"

// SnapshotStore keeps cart snapshots as JSON strings in Redis.
type SnapshotStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewSnapshotStore(client redis.Cmdable, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotStore{client: client, ttl: ttl}
}

type lineRecord struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

type snapshotRecord struct {
	Lines         []lineRecord    `json:"lines"`
	PromoCode     string          `json:"promoCode,omitempty"`
	DiscountRate  decimal.Decimal `json:"discountRate"`
	SchemaVersion int             `json:"v"`
}

func (s *SnapshotStore) Load(ctx context.Context, key string) (domain.Snapshot, error) {
	if err := s.ensureClient(); err != nil {
		return domain.Snapshot{}, err
	}
	data, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis get failed: %w", err)
	}
	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal cart snapshot failed: %w", err)
	}
	return toDomain(rec), nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, snapshot domain.Snapshot) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	data, err := json.Marshal(toRecord(snapshot))
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *SnapshotStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis snapshot store not configured")
	}
	return nil
}

func redisKey(key string) string {
	return keyPrefix + key
}

func toRecord(snapshot domain.Snapshot) snapshotRecord {
	rec := snapshotRecord{
		Lines:         make([]lineRecord, 0, len(snapshot.Lines)),
		PromoCode:     snapshot.Promotion.Code,
		DiscountRate:  snapshot.Promotion.Rate,
		SchemaVersion: 1,
	}
	for _, line := range snapshot.Lines {
		rec.Lines = append(rec.Lines, lineRecord{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return rec
}

func toDomain(rec snapshotRecord) domain.Snapshot {
	snapshot := domain.Snapshot{
		Lines:     make([]domain.Line, 0, len(rec.Lines)),
		Promotion: domain.Promotion{Code: rec.PromoCode, Rate: rec.DiscountRate},
	}
	for _, line := range rec.Lines {
		snapshot.Lines = append(snapshot.Lines, domain.Line{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return snapshot
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)
