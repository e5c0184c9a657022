package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect dials Redis and verifies connectivity with PING.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Open dials addr and returns the client plus a cleanup function. An empty addr or a
// failed connection is logged and yields a nil client so callers keep snapshots in memory.
func Open(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*goredis.Client, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(addr) == "" {
		logger.Warn("REDIS_ADDR not set, cart snapshots stay in memory")
		return nil, func() {}
	}
	client, err := Connect(ctx, addr, password, db)
	if err != nil {
		logger.Warn("failed to connect to redis, cart snapshots stay in memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("redis connection established", slog.String("addr", addr), slog.Int("db", db))
	return client, func() { _ = client.Close() }
}
