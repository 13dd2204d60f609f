package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"stockbook/internal/config"
	"stockbook/internal/engine"
	"stockbook/internal/snapshot"
)

func main() {
	report := flag.String("report", "summary", "report to print: summary | stats")
	flag.Parse()

	cfg := config.Load()
	logger := config.NewLogger(cfg)

	var store snapshot.Store
	if cfg.DatabaseURL != "" {
		gormStore, err := snapshot.OpenGormStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		log.Println("Using Postgres snapshot store.")
		store = gormStore
	} else {
		store = snapshot.NewFileStore(cfg.SnapshotPath)
		log.Printf("Using file snapshot store at %s", cfg.SnapshotPath)
	}

	eng, err := engine.New(store, logger, engine.Options{LowStockThreshold: cfg.LowStockThreshold})
	if err != nil {
		log.Fatalf("Engine startup failed: %v", err)
	}

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch *report {
	case "summary":
		rows, err := eng.GetInventorySummary(ctx)
		if err != nil {
			log.Fatalf("inventory summary: %v", err)
		}
		if err := enc.Encode(rows); err != nil {
			log.Fatalf("encode summary: %v", err)
		}
	case "stats":
		stats, err := eng.GetDashboardStats(ctx)
		if err != nil {
			log.Fatalf("dashboard stats: %v", err)
		}
		if err := enc.Encode(stats); err != nil {
			log.Fatalf("encode stats: %v", err)
		}
	default:
		log.Fatalf("unknown report %q (want summary or stats)", *report)
	}
}
