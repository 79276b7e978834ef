package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/shared/models"
)

// MemoryRepository keeps transactions in process memory. It gives the same
// answers as the PostgreSQL repositories and backs the "memory" store driver.
type MemoryRepository struct {
	mu     sync.RWMutex
	rows   []models.Transaction
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rows)), nil
}

// InsertBatch appends transactions, assigning ids in order.
func (r *MemoryRepository) InsertBatch(ctx context.Context, transactions []models.Transaction) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range transactions {
		t.ID = r.nextID
		t.DateOfSale = t.DateOfSale.UTC()
		r.nextID++
		r.rows = append(r.rows, t)
	}
	return len(transactions), nil
}

func (r *MemoryRepository) List(ctx context.Context, f criteria.Filter, page criteria.Page) ([]models.Transaction, error) {
	matches, err := r.matching(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, page.Size)
	if page.Offset() >= len(matches) {
		return out, nil
	}
	end := page.Offset() + page.Size
	if end > len(matches) {
		end = len(matches)
	}
	return append(out, matches[page.Offset():end]...), nil
}

func (r *MemoryRepository) Statistics(ctx context.Context, f criteria.Filter, policy criteria.SoldPolicy) (*models.Statistics, error) {
	matches, err := r.matching(ctx, f)
	if err != nil {
		return nil, err
	}
	stats := &models.Statistics{TotalSaleAmount: decimal.Zero}
	for _, t := range matches {
		stats.TotalSaleAmount = stats.TotalSaleAmount.Add(decimal.NewFromFloat(t.Price))
		if policy.IsSold(t) {
			stats.TotalSoldItems++
		}
		if t.Price == 0 {
			stats.TotalNotSoldItems++
		}
	}
	stats.TotalSaleAmount = stats.TotalSaleAmount.Round(2)
	return stats, nil
}

func (r *MemoryRepository) CountByPriceBand(ctx context.Context, f criteria.Filter, bands criteria.Bands) ([]int64, error) {
	matches, err := r.matching(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := make([]int64, bands.Len())
	for _, t := range matches {
		counts[bands.Index(t.Price)]++
	}
	return counts, nil
}

func (r *MemoryRepository) CountByCategory(ctx context.Context, f criteria.Filter) ([]models.CategoryCount, error) {
	matches, err := r.matching(ctx, f)
	if err != nil {
		return nil, err
	}
	byCategory := map[string]int64{}
	for _, t := range matches {
		byCategory[t.Category]++
	}
	categories := make([]models.CategoryCount, 0, len(byCategory))
	for name, n := range byCategory {
		categories = append(categories, models.CategoryCount{Category: name, Count: n})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})
	return categories, nil
}

// matching returns the filtered rows in id order.
func (r *MemoryRepository) matching(ctx context.Context, f criteria.Filter) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Transaction
	for _, t := range r.rows {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}
