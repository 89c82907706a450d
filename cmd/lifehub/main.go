package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/config"
	"github.com/lifehubapp/lifehub/internal/routes"
	"github.com/lifehubapp/lifehub/internal/services"
	"github.com/lifehubapp/lifehub/pkg/db"
	"github.com/lifehubapp/lifehub/pkg/kv"
	"github.com/lifehubapp/lifehub/pkg/media"
)

func main() {
	ctx := context.Background()
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	cfg.Print(log.Printf)

	var logger *zap.Logger
	if config.IsDev() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.New(ctx, db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()

	var kvStore kv.Store
	if cfg.ValkeyAddr != "" {
		kvStore, err = kv.NewValkeyStore(kv.ValkeyConfig{
			Addr:     cfg.ValkeyAddr,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
		})
		if err != nil {
			log.Fatalf("failed to connect to valkey: %v", err)
		}
	} else {
		kvStore = kv.NewMemoryStore()
	}
	defer kvStore.Close()

	var mediaStore media.Store
	if cfg.S3Endpoint != "" {
		s3, err := media.NewS3Store(media.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			log.Fatalf("failed to initialize media storage: %v", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatalf("failed to ensure media bucket: %v", err)
		}
		mediaStore = s3
	}

	svcs, err := services.New(cfg, database, kvStore, mediaStore, logger)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	humaCfg := huma.DefaultConfig("lifehub", "1.0.0")
	humaCfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "JWT token from /api/v1/auth/login",
		},
	}

	api := humachi.New(router, humaCfg)

	api.UseMiddleware(svcs.IAM.Middleware(api))
	routes.RegisterRoutes(api, svcs)

	addr := fmt.Sprintf(":%s", cfg.Port)

	log.Printf("🚀 lifehub starting on %s\n", addr)
	log.Printf("📚 OpenAPI docs: %s/docs\n", cfg.BaseURL)
	log.Printf("📄 OpenAPI spec: %s/openapi.json\n", cfg.BaseURL)

	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
