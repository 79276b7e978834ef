package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL, verifies the connection and makes sure the
// transactions table exists.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err = CreateTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return db, nil
}

func CreateTables(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS product_transactions (
			id BIGSERIAL PRIMARY KEY,
			date_of_sale TIMESTAMPTZ NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			category TEXT NOT NULL,
			image TEXT,
			sold BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE INDEX IF NOT EXISTS idx_product_transactions_date_of_sale ON product_transactions(date_of_sale);
		CREATE INDEX IF NOT EXISTS idx_product_transactions_category ON product_transactions(category);
	`

	_, err := db.ExecContext(ctx, query)
	return err
}
