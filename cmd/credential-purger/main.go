package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/foodio-storefront/internal/app/storefront"
	sessionpostgres "github.com/Apurer/foodio-storefront/internal/domains/session/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/foodio-storefront/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := storefront.LoadDotEnv(); err != nil {
		log.Fatalf("failed to read .env: %v", err)
	}
	cfg, err := storefront.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge credentials")
	}

	store := sessionpostgres.NewCredentialStore(db, cfg.CredentialKey, cfg.CredentialTTL)
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge credentials: %v", err)
	}
	logger.Info("credential purge completed", slog.Int64("purged", purged))
}
