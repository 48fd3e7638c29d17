// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"inventa/internal/core/id"
	"inventa/internal/infrastructure/storage/postgres"
	"inventa/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedItems(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed items", "error", err)
	}

	if err := seedSuppliers(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed suppliers", "error", err)
	}

	log.Info("seeding completed successfully")
}

func seedItems(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	items := []struct {
		name     string
		quantity int64
	}{
		{"A4 paper (ream)", 120},
		{"Ballpoint pen, blue", 500},
		{"Desktop stapler", 40},
		{"Paper clips 28mm (box of 100)", 200},
		{"Lever arch folder", 75},
	}

	for _, it := range items {
		itemID := id.New()
		tag, err := pool.Exec(ctx, `
			INSERT INTO items (id, name, quantity_on_hand, version, created_at, updated_at)
			VALUES ($1, $2, $3, 1, now(), now())
			ON CONFLICT (name) DO NOTHING
		`, itemID, it.name, it.quantity)
		if err != nil {
			return fmt.Errorf("insert item %q: %w", it.name, err)
		}
		if tag.RowsAffected() == 0 {
			log.Infow("item already exists", "name", it.name)
			continue
		}

		// Opening stock is a manual adjustment so the delta history
		// accounts for it from day one.
		_, err = pool.Exec(ctx, `
			INSERT INTO stock_deltas (id, item_id, delta, cause_order_id, created_at)
			VALUES ($1, $2, $3, $4, now())
		`, id.New(), itemID, it.quantity, id.Nil())
		if err != nil {
			return fmt.Errorf("insert opening delta for %q: %w", it.name, err)
		}

		log.Infow("item seeded", "name", it.name, "quantity", it.quantity)
	}

	return nil
}

func seedSuppliers(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	suppliers := []struct {
		name    string
		contact string
	}{
		{"Office Supplies Plus Ltd", "sales@officeplus.example, +44 20 7946 0001"},
		{"Paper Mill Direct", "orders@papermill.example"},
		{"Stationery Wholesale Co", "contact@stationeryco.example, +44 20 7946 0102"},
	}

	for _, s := range suppliers {
		tag, err := pool.Exec(ctx, `
			INSERT INTO suppliers (id, name, contact_info, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (name) DO NOTHING
		`, id.New(), s.name, s.contact)
		if err != nil {
			return fmt.Errorf("insert supplier %q: %w", s.name, err)
		}
		if tag.RowsAffected() == 0 {
			log.Infow("supplier already exists", "name", s.name)
			continue
		}
		log.Infow("supplier seeded", "name", s.name)
	}

	return nil
}
