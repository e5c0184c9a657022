package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/application"
	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	"github.com/Apurer/foodio-storefront/internal/domains/cart/ports"
)

func setupTestRedis(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSnapshotStore(client, time.Hour), mr
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	snapshot := domain.Snapshot{
		Lines: []domain.Line{
			{ItemID: "D1", Name: "Biryani", UnitPrice: decimal.RequireFromString("250.50"), Quantity: 2},
			{ItemID: "D2", UnitPrice: decimal.NewFromInt(30), Quantity: 1},
		},
		Promotion: domain.Promotion{Code: "FIRST10", Rate: decimal.NewFromInt(10)},
	}
	require.NoError(t, store.Save(ctx, "cart:default", snapshot))
	assert.True(t, mr.Exists("storefront:cart:default"))
	assert.Equal(t, time.Hour, mr.TTL("storefront:cart:default"))

	loaded, err := store.Load(ctx, "cart:default")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, "D1", loaded.Lines[0].ItemID)
	assert.Equal(t, "Biryani", loaded.Lines[0].Name)
	assert.True(t, loaded.Lines[0].UnitPrice.Equal(decimal.RequireFromString("250.5")))
	assert.Equal(t, 2, loaded.Lines[0].Quantity)
	assert.Equal(t, "FIRST10", loaded.Promotion.Code)
	assert.True(t, loaded.Promotion.Rate.Equal(decimal.NewFromInt(10)))
}

func TestSnapshotStore_Miss(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestSnapshotStore_InvalidJSON(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("storefront:broken", "{not json"))

	_, err := store.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestSnapshotStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "k", domain.Snapshot{Lines: []domain.Line{{ItemID: "D1", UnitPrice: decimal.NewFromInt(1), Quantity: 1}}}))

	require.NoError(t, store.Delete(ctx, "k"))
	assert.False(t, mr.Exists("storefront:k"))
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestSnapshotStore_ConnectionFailure(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	err := store.Save(context.Background(), "k", domain.Snapshot{})
	require.Error(t, err)
}

func TestLedger_PersistAndHydrateThroughRedis(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	ledger := application.NewLedger(application.WithSnapshotStore(store, "cart:kiosk"))
	require.NoError(t, ledger.AddItem("D1", "Biryani", decimal.NewFromInt(300), 2))
	require.NoError(t, ledger.ApplyPromotion("first10"))
	require.NoError(t, ledger.Persist(ctx))

	restored := application.NewLedger(application.WithSnapshotStore(store, "cart:kiosk"))
	require.NoError(t, restored.Hydrate(ctx))
	assert.Equal(t, "570.00", restored.ComputeTotals().Display().GrandTotal)

	restored.Clear()
	require.NoError(t, restored.Persist(ctx))
	_, err := store.Load(ctx, "cart:kiosk")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}
