package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/config"
	"storefront-catalog/internal/db"
	"storefront-catalog/internal/importer"
	categoryrepo "storefront-catalog/internal/repository/category"
	productrepo "storefront-catalog/internal/repository/product"
	tagrepo "storefront-catalog/internal/repository/tag"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog product CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(
		f,
		productrepo.NewPostgres(pool, nil),
		categoryrepo.NewPostgres(pool, nil),
		tagrepo.NewPostgres(pool, nil),
	)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	// The importer writes through the repositories, so any cached reference
	// data is stale once new categories or tags appear.
	if store, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Printf("skipping cache invalidation: %v", err)
	} else if err := store.Delete(ctx, "categories", "tags"); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
