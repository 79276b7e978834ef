package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/salesboard/txstats/shared/models"
)

// TransactionWriteRepository is the only writer of the transactions table.
// It is used once, to seed the store.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Count returns the number of stored transactions.
func (r *TransactionWriteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+transactionsTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// InsertBatch bulk loads transactions with COPY inside a single database
// transaction: either every record is stored or none is.
func (r *TransactionWriteRepository) InsertBatch(ctx context.Context, transactions []models.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(transactionsTable,
		"date_of_sale", "title", "description", "price", "category", "image", "sold",
	))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare copy: %w", describe(err))
	}

	for _, t := range transactions {
		if _, err := stmt.ExecContext(ctx,
			t.DateOfSale.UTC(), t.Title, t.Description, t.Price, t.Category, nullString(t.Image), t.Sold,
		); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to copy transaction %q: %w", t.Title, describe(err))
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("failed to flush copy: %w", describe(err))
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to close copy: %w", describe(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return len(transactions), nil
}

// describe surfaces the server message and SQLSTATE of PostgreSQL errors.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (code %s): %w", pqErr.Message, pqErr.Code, err)
	}
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
