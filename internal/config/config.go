package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config carries the engine's environment settings.
type Config struct {
	SnapshotPath      string
	DatabaseURL       string
	LowStockThreshold int64
	LogLevel          string
}

// Load reads .env if present, then the environment, with inline defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	cfg := Config{
		SnapshotPath:      os.Getenv("SNAPSHOT_PATH"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LowStockThreshold: 10,
		LogLevel:          os.Getenv("LOG_LEVEL"),
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = "data/snapshot.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if raw := os.Getenv("LOW_STOCK_THRESHOLD"); raw != "" {
		if threshold, err := strconv.ParseInt(raw, 10, 64); err == nil && threshold > 0 {
			cfg.LowStockThreshold = threshold
		}
	}
	return cfg
}

// NewLogger builds the shared JSON logger at the configured level.
func NewLogger(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
