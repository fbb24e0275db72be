package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables the repositories expect. Statements are
// idempotent so restarting against an initialized database is safe.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id          TEXT PRIMARY KEY,
			seller_id   TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			stock       INT NOT NULL CHECK (stock >= 0),
			category    TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id               TEXT PRIMARY KEY,
			item_id          TEXT NOT NULL,
			buyer_id         TEXT NOT NULL,
			seller_id        TEXT NOT NULL,
			amount_cents     BIGINT NOT NULL,
			quantity         INT NOT NULL,
			status           TEXT NOT NULL,
			ship_name        TEXT NOT NULL DEFAULT '',
			ship_address     TEXT NOT NULL DEFAULT '',
			ship_city        TEXT NOT NULL DEFAULT '',
			ship_postal_code TEXT NOT NULL DEFAULT '',
			ship_phone       TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS orders_buyer_idx ON orders (buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS orders_seller_idx ON orders (seller_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id           TEXT PRIMARY KEY,
			order_id     TEXT NOT NULL UNIQUE,
			user_id      TEXT NOT NULL,
			amount_cents BIGINT NOT NULL,
			method       TEXT NOT NULL,
			reference    TEXT NOT NULL,
			status       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			item_id    TEXT NOT NULL,
			quantity   INT NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			item_id    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			id          TEXT PRIMARY KEY,
			follower_id TEXT NOT NULL,
			followee_id TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			UNIQUE (follower_id, followee_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}
