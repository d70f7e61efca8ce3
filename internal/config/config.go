// Package config loads service configuration from environment variables
// and sets up the process logger.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Config holds every runtime parameter of the service. The remote stores
// are optional: an empty DatabaseDSN or S3Bucket leaves the service in
// local-only mode.
type Config struct {
	// Port of the HTTP server.
	Port int
	// UploadDir is the local storage directory, created if missing.
	UploadDir string

	// DatabaseDSN is the Postgres DSN for the metadata store. Empty
	// disables the store.
	DatabaseDSN string

	// S3Bucket names the blob store bucket. Empty disables the store.
	S3Bucket string
	// S3Region is the bucket's region.
	S3Region string
	// S3Endpoint overrides the endpoint for S3-compatible stores.
	S3Endpoint string
	// S3AccessKey and S3SecretKey select static credentials. When unset
	// the SDK's default credential chain applies.
	S3AccessKey string
	S3SecretKey string
	// SignTTL is the validity window of issued download URLs. SigV4 caps
	// presigning at 7 days.
	SignTTL time.Duration

	// RemoteTimeout bounds each remote store attempt so the local fast
	// path returns promptly.
	RemoteTimeout time.Duration

	// LogLevel and LogFormat configure the slog logger.
	LogLevel  slog.Level
	LogFormat string

	// JWTSecret signs the stub session tokens.
	JWTSecret string
}

// Load reads the configuration from EDUSHARE_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Port, err = getEnvInt("EDUSHARE_PORT", 5000)
	if err != nil {
		return nil, fmt.Errorf("EDUSHARE_PORT: %w", err)
	}

	cfg.UploadDir = getEnvDefault("EDUSHARE_UPLOAD_DIR", "uploads")
	cfg.DatabaseDSN = os.Getenv("EDUSHARE_DATABASE_DSN")

	cfg.S3Bucket = os.Getenv("EDUSHARE_S3_BUCKET")
	cfg.S3Region = getEnvDefault("EDUSHARE_S3_REGION", "us-east-1")
	cfg.S3Endpoint = os.Getenv("EDUSHARE_S3_ENDPOINT")
	cfg.S3AccessKey = os.Getenv("EDUSHARE_S3_ACCESS_KEY")
	cfg.S3SecretKey = os.Getenv("EDUSHARE_S3_SECRET_KEY")

	cfg.SignTTL, err = getEnvDuration("EDUSHARE_SIGN_TTL", 168*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("EDUSHARE_SIGN_TTL: %w", err)
	}

	cfg.RemoteTimeout, err = getEnvDuration("EDUSHARE_REMOTE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EDUSHARE_REMOTE_TIMEOUT: %w", err)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("EDUSHARE_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("EDUSHARE_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("EDUSHARE_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("EDUSHARE_LOG_FORMAT: invalid format %q, valid: json, text", cfg.LogFormat)
	}

	cfg.JWTSecret = getEnvDefault("EDUSHARE_JWT_SECRET", "dev-insecure-secret-change")

	return cfg, nil
}

// SetupLogger builds the global slog logger from the configuration.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %q", val)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %q (use Go syntax: 30s, 15m, 1h)", val)
	}
	return d, nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid level %q, valid: debug, info, warn, error", level)
	}
}
