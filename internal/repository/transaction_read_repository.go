package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/shared/models"
)

// TransactionReadRepository answers every read query directly from
// PostgreSQL. Filtering, paging and aggregation all run in the database.
type TransactionReadRepository struct {
	db *sql.DB
}

func NewTransactionReadRepository(db *sql.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// List returns one page of matching transactions in insertion order.
func (r *TransactionReadRepository) List(ctx context.Context, f criteria.Filter, page criteria.Page) ([]models.Transaction, error) {
	args := &queryArgs{}
	query := `
		SELECT id, date_of_sale, title, description, price, category, COALESCE(image, ''), sold
		FROM ` + transactionsTable + whereClause(f, args) + `
		ORDER BY id
		LIMIT ` + args.add(page.Size) + ` OFFSET ` + args.add(page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, page.Size)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.DateOfSale, &t.Title, &t.Description,
			&t.Price, &t.Category, &t.Image, &t.Sold,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.DateOfSale = t.DateOfSale.UTC()
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// Statistics sums prices and counts sold and unpriced items in one pass.
func (r *TransactionReadRepository) Statistics(ctx context.Context, f criteria.Filter, policy criteria.SoldPolicy) (*models.Statistics, error) {
	args := &queryArgs{}
	query := `
		SELECT COALESCE(SUM(price), 0),
		       COUNT(*) FILTER (WHERE ` + soldCondition(policy) + `),
		       COUNT(*) FILTER (WHERE price = 0)
		FROM ` + transactionsTable + whereClause(f, args)

	var stats models.Statistics
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args.values...).Scan(
		&total, &stats.TotalSoldItems, &stats.TotalNotSoldItems,
	); err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	stats.TotalSaleAmount = total.Round(2)
	return &stats, nil
}

// CountByPriceBand returns one count per band, indexed like bands.Index.
func (r *TransactionReadRepository) CountByPriceBand(ctx context.Context, f criteria.Filter, bands criteria.Bands) ([]int64, error) {
	args := &queryArgs{}
	band := bandExpression(bands, args)
	query := `
		SELECT band, COUNT(*)
		FROM (SELECT ` + band + ` AS band FROM ` + transactionsTable + whereClause(f, args) + `) banded
		GROUP BY band`

	rows, err := r.db.QueryContext(ctx, query, args.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to count price bands: %w", err)
	}
	defer rows.Close()

	counts := make([]int64, bands.Len())
	for rows.Next() {
		var idx int
		var n int64
		if err := rows.Scan(&idx, &n); err != nil {
			return nil, fmt.Errorf("failed to scan price band: %w", err)
		}
		if idx < 0 || idx >= len(counts) {
			return nil, fmt.Errorf("price band %d out of range", idx)
		}
		counts[idx] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count price bands: %w", err)
	}
	return counts, nil
}

// CountByCategory groups matches by category, ordered by category name
// byte-wise so the order does not depend on the database collation.
func (r *TransactionReadRepository) CountByCategory(ctx context.Context, f criteria.Filter) ([]models.CategoryCount, error) {
	args := &queryArgs{}
	query := `
		SELECT category, COUNT(*)
		FROM ` + transactionsTable + whereClause(f, args) + `
		GROUP BY category
		ORDER BY category COLLATE "C"`

	rows, err := r.db.QueryContext(ctx, query, args.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()

	categories := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	return categories, nil
}
