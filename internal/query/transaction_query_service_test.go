package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/internal/repository"
	"github.com/salesboard/txstats/shared/cqrs"
	"github.com/salesboard/txstats/shared/models"
)

// ---- helpers ----

func seededStore(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	store := repository.NewMemoryRepository()
	_, err := store.InsertBatch(context.Background(), []models.Transaction{
		{DateOfSale: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Title: "Backpack", Description: "Everyday bag", Price: 50, Category: "A"},
		{DateOfSale: time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC), Title: "Jacket", Description: "Cotton outerwear", Price: 150, Category: "B"},
		{DateOfSale: time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), Title: "Sample", Description: "Free gift", Price: 0, Category: "A"},
		{DateOfSale: time.Date(2022, 11, 3, 0, 0, 0, 0, time.UTC), Title: "Monitor", Description: "27 inch", Price: 999.99, Category: "electronics"},
	})
	require.NoError(t, err)
	return store
}

// failingReader fails one operation and blocks the others until cancelled.
type failingReader struct {
	failOn string
	err    error
}

func (r *failingReader) wait(ctx context.Context, op string) error {
	if op == r.failOn {
		return r.err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return errors.New("not cancelled")
	}
}

func (r *failingReader) List(ctx context.Context, _ criteria.Filter, _ criteria.Page) ([]models.Transaction, error) {
	return nil, r.wait(ctx, "list")
}
func (r *failingReader) Statistics(ctx context.Context, _ criteria.Filter, _ criteria.SoldPolicy) (*models.Statistics, error) {
	return nil, r.wait(ctx, "statistics")
}
func (r *failingReader) CountByPriceBand(ctx context.Context, _ criteria.Filter, _ criteria.Bands) ([]int64, error) {
	return nil, r.wait(ctx, "bands")
}
func (r *failingReader) CountByCategory(ctx context.Context, _ criteria.Filter) ([]models.CategoryCount, error) {
	return nil, r.wait(ctx, "categories")
}

// ---- tests ----

func TestScenarioJanuary(t *testing.T) {
	svc := NewTransactionQueryService(seededStore(t), Options{})
	ctx := context.Background()
	jan := cqrs.MonthQuery{Month: "01"}

	list, err := svc.ListTransactions(ctx, cqrs.ListTransactionsQuery{Month: "01"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Backpack", list[0].Title)
	assert.Equal(t, "Jacket", list[1].Title)

	stats, err := svc.GetStatistics(ctx, jan)
	require.NoError(t, err)
	assert.Equal(t, "200", stats.TotalSaleAmount.String())
	assert.Equal(t, int64(0), stats.TotalNotSoldItems)

	bars, err := svc.GetBarChart(ctx, jan)
	require.NoError(t, err)
	require.Len(t, bars, 10)
	assert.Equal(t, models.PriceBandCount{Range: "0 - 100", Count: 1}, bars[0])
	assert.Equal(t, models.PriceBandCount{Range: "101 - 200", Count: 1}, bars[1])
	for _, b := range bars[2:] {
		assert.Zero(t, b.Count, b.Range)
	}

	pie, err := svc.GetPieChart(ctx, jan)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryCount{{Category: "A", Count: 1}, {Category: "B", Count: 1}}, pie)
}

func TestListTransactionsClampsPaging(t *testing.T) {
	svc := NewTransactionQueryService(seededStore(t), Options{MaxPerPage: 2})

	list, err := svc.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{Page: -1, PerPage: 50})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{Page: 2, PerPage: 50})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sample", list[0].Title)
}

func TestListTransactionsSearch(t *testing.T) {
	svc := NewTransactionQueryService(seededStore(t), Options{})

	list, err := svc.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{Search: "COTTON"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jacket", list[0].Title)

	list, err = svc.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{Search: "999.99"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Monitor", list[0].Title)
}

func TestMonthModes(t *testing.T) {
	store := seededStore(t)
	calendar := NewTransactionQueryService(store, Options{MonthMode: criteria.MonthCalendar})
	substring := NewTransactionQueryService(store, Options{MonthMode: criteria.MonthSubstring})

	byName, err := calendar.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{Month: "november"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Monitor", byName[0].Title)

	// "1" is January only in calendar mode but hits every date containing a 1.
	cal, err := calendar.GetStatistics(context.Background(), cqrs.MonthQuery{Month: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cal.TotalSoldItems)

	sub, err := substring.GetStatistics(context.Background(), cqrs.MonthQuery{Month: "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), sub.TotalSoldItems)
}

func TestSoldPolicyIsConfigurable(t *testing.T) {
	store := seededStore(t)

	all, err := NewTransactionQueryService(store, Options{}).GetStatistics(context.Background(), cqrs.MonthQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalSoldItems)
	assert.Equal(t, int64(1), all.TotalNotSoldItems)

	priced, err := NewTransactionQueryService(store, Options{SoldPolicy: criteria.SoldPriced}).GetStatistics(context.Background(), cqrs.MonthQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), priced.TotalSoldItems)
	assert.Equal(t, "1199.99", priced.TotalSaleAmount.String())
}

func TestBarChartCountsSumToMatches(t *testing.T) {
	svc := NewTransactionQueryService(seededStore(t), Options{})

	bars, err := svc.GetBarChart(context.Background(), cqrs.MonthQuery{})
	require.NoError(t, err)
	var total int64
	for _, b := range bars {
		total += b.Count
	}
	assert.Equal(t, int64(4), total)
	assert.Equal(t, models.PriceBandCount{Range: "901 - above", Count: 1}, bars[9])
}

func TestCombinedEqualsIndividualResults(t *testing.T) {
	svc := NewTransactionQueryService(seededStore(t), Options{})
	ctx := context.Background()
	q := cqrs.MonthQuery{Month: "jan"}

	combined, err := svc.GetCombined(ctx, q)
	require.NoError(t, err)

	list, err := svc.ListTransactions(ctx, cqrs.ListTransactionsQuery{Month: q.Month})
	require.NoError(t, err)
	stats, err := svc.GetStatistics(ctx, q)
	require.NoError(t, err)
	bars, err := svc.GetBarChart(ctx, q)
	require.NoError(t, err)
	pie, err := svc.GetPieChart(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, list, combined.Transactions)
	assert.Equal(t, stats, combined.Statistics)
	assert.Equal(t, bars, combined.BarChart)
	assert.Equal(t, pie, combined.PieChart)
}

func TestCombinedFailsAsAWhole(t *testing.T) {
	for _, op := range []string{"list", "statistics", "bands", "categories"} {
		t.Run(op, func(t *testing.T) {
			boom := errors.New("store unavailable")
			svc := NewTransactionQueryService(&failingReader{failOn: op, err: boom}, Options{})

			view, err := svc.GetCombined(context.Background(), cqrs.MonthQuery{Month: "3"})
			require.ErrorIs(t, err, boom)
			assert.Nil(t, view)
		})
	}
}

func TestBarChartPropagatesStoreError(t *testing.T) {
	boom := errors.New("store unavailable")
	svc := NewTransactionQueryService(&failingReader{failOn: "bands", err: boom}, Options{})

	_, err := svc.GetBarChart(context.Background(), cqrs.MonthQuery{})
	assert.ErrorIs(t, err, boom)
}
