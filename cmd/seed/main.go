// Package main provides a CLI tool for creating the schema and seeding the
// database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"tally/internal/core/id"
	"tally/internal/core/tenant"
	"tally/internal/core/types"
	"tally/internal/domain/catalog"
	"tally/internal/domain/ledger"
	"tally/internal/infrastructure/storage/postgres"
	"tally/internal/infrastructure/storage/postgres/catalog_repo"
	"tally/internal/infrastructure/storage/postgres/ledger_repo"
	"tally/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := applySchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("schema applied")

	if err := seedUsers(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed users", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func applySchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range schemaDDL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply statement: %w", err)
		}
	}
	return nil
}

// seedUsers creates one admin per tenant when missing.
func seedUsers(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	seeds := []struct {
		tenant  tenant.ID
		email   string
		name    string
		isAdmin bool
	}{
		{tenant.Red, envOr("RED_ADMIN_EMAIL", "admin@red.local"), "Red Admin", true},
		{tenant.White, envOr("WHITE_ADMIN_EMAIL", "admin@white.local"), "White Admin", false},
	}

	for _, s := range seeds {
		var existingID id.ID
		err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, s.email).Scan(&existingID)
		if err == nil {
			log.Infow("user already exists", "email", s.email, "user_id", existingID)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check user exists: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		userID := id.New()
		_, err = pool.Exec(ctx, `
			INSERT INTO users (id, tenant_id, email, password_hash, display_name, is_admin, active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
			userID, s.tenant, s.email, string(hash), s.name, s.isAdmin,
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		log.Infow("user created", "email", s.email, "tenant", s.tenant, "user_id", userID)
	}
	return nil
}

// seedDemoData creates a handful of items and opening-stock movements for
// both tenants.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txm := postgres.NewTxManager(pool)
	itemRepo := catalog_repo.NewItemRepo(txm)
	movementRepo := ledger_repo.NewMovementRepo(txm)

	demoItems := []struct {
		code  string
		desc  string
		price string
		stock map[tenant.ID]int64
	}{
		{"CX-0500", "Box 500g", "12.50", map[tenant.ID]int64{tenant.Red: 120, tenant.White: 40}},
		{"CX-1000", "Box 1kg", "22.00", map[tenant.ID]int64{tenant.Red: 80, tenant.White: 25}},
		{"PT-0250", "Pouch 250g", "7.90", map[tenant.ID]int64{tenant.Red: 200}},
	}

	now := time.Now().UTC()
	for _, d := range demoItems {
		item, err := itemRepo.GetByCode(ctx, d.code)
		if err != nil {
			item = catalog.NewItem(d.code, d.desc, types.MustMoney(d.price))
			if err := itemRepo.Create(ctx, item); err != nil {
				return fmt.Errorf("create item %s: %w", d.code, err)
			}
			log.Infow("item created", "code", d.code, "item_id", item.ID)
		}

		for t, quantity := range d.stock {
			err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
				if err := movementRepo.AcquireItemLock(ctx, t, item.ID); err != nil {
					return err
				}
				existing, err := movementRepo.ListForReplay(ctx, t, item.ID)
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					return nil
				}

				previous := ledger.Fold(existing)
				rec := &ledger.MovementRecord{
					ID:               id.New(),
					ItemID:           item.ID,
					TenantID:         t,
					Kind:             ledger.KindEntry,
					Quantity:         quantity,
					MovementDate:     ledger.Day(now),
					RegisteredAt:     now,
					PreviousQuantity: previous,
					CurrentQuantity:  previous + quantity,
					Note:             "opening stock",
				}
				return movementRepo.Insert(ctx, rec)
			})
			if err != nil {
				return fmt.Errorf("seed stock for %s/%s: %w", d.code, t, err)
			}
		}
	}
	return nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
