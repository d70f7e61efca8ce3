package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/raki03031/edushare/internal/auth"
	"github.com/raki03031/edushare/internal/config"
	"github.com/raki03031/edushare/internal/handlers"
	"github.com/raki03031/edushare/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.SetupLogger(cfg)
	logger.Info("edushare starting",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 1. Remote metadata store (optional). A failed connection degrades
	// the whole service to local-only, it never aborts startup.
	var meta storage.MetadataStore
	if cfg.DatabaseDSN != "" {
		store, err := storage.NewGormStore(cfg.DatabaseDSN)
		if err != nil {
			logger.Warn("metadata store unavailable, running local-only", slog.String("error", err.Error()))
		} else {
			meta = store
			logger.Info("metadata store connected")
		}
	}

	// 2. Remote blob store (optional), same degradation rule.
	var blob storage.BlobStore
	if cfg.S3Bucket != "" {
		b, err := storage.NewS3Blob(context.Background(), storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			SignTTL:   cfg.SignTTL,
		})
		if err != nil {
			logger.Warn("blob store unavailable, running local-only", slog.String("error", err.Error()))
		} else {
			blob = b
			logger.Info("blob store connected", slog.String("bucket", cfg.S3Bucket))
		}
	}

	// 3. Local storage, always present
	local, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	// 4. Setup Echo
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// 5. API Routes
	h := handlers.NewHandler(local, meta, blob, auth.NewIssuer(cfg.JWTSecret), logger, cfg.RemoteTimeout)
	e.GET("/", h.HomeHandler)
	api := e.Group("/api")
	api.POST("/login", h.LoginHandler)
	api.POST("/register", h.RegisterHandler)
	api.POST("/upload", h.UploadHandler)
	api.GET("/download/:id", h.DownloadHandler)
	api.GET("/files", h.FilesHandler)
	api.POST("/files/:id/reviews", h.AddReviewHandler)
	api.GET("/files/:id/reviews", h.ReviewsHandler)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
