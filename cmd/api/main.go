package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/config"
	"storefront-catalog/internal/db"
	"storefront-catalog/internal/httpserver"
	categoryrepo "storefront-catalog/internal/repository/category"
	productrepo "storefront-catalog/internal/repository/product"
	tagrepo "storefront-catalog/internal/repository/tag"
	categorysvc "storefront-catalog/internal/service/category"
	productsvc "storefront-catalog/internal/service/product"
	tagsvc "storefront-catalog/internal/service/tag"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	store, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}

	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool, logger), store, cfg.CacheTTL)
	tagService := tagsvc.New(tagrepo.NewPostgres(dbpool, logger), store, cfg.CacheTTL)
	productService := productsvc.New(productrepo.NewPostgres(dbpool, logger))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CategorySvc:   categoryService,
		TagSvc:        tagService,
		ProductSvc:    productService,
		JWTSecret:     cfg.JWTSecret,
		AdminUser:     cfg.AdminUser,
		AdminPassword: cfg.AdminPassword,
		SearchRPS:     cfg.SearchRateRPS,
		SearchBurst:   cfg.SearchRateBurst,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
