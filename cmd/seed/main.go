package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/config"
	"storefront-catalog/internal/db"
	"storefront-catalog/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	// Seeding bypasses the services, so the reference data cache must be
	// dropped by hand. A dead redis just means a stale cache until the TTL.
	if store, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Printf("skipping cache invalidation: %v", err)
	} else if err := store.Delete(ctx, "categories", "tags"); err != nil {
		logger.Printf("cache invalidation failed: %v", err)
	}

	logger.Println("seed applied")
}
