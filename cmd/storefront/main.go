package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Apurer/foodio-storefront/internal/app/storefront"
)

func main() {
	if err := storefront.LoadDotEnv(); err != nil {
		log.Fatalf("failed to read .env: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := storefront.Run(ctx); err != nil {
		log.Fatalf("storefront exited: %v", err)
	}
}
