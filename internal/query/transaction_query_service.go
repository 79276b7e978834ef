package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/shared/cqrs"
	"github.com/salesboard/txstats/shared/models"
)

// TransactionReader is the read side of the transaction store.
type TransactionReader interface {
	List(ctx context.Context, f criteria.Filter, page criteria.Page) ([]models.Transaction, error)
	Statistics(ctx context.Context, f criteria.Filter, policy criteria.SoldPolicy) (*models.Statistics, error)
	CountByPriceBand(ctx context.Context, f criteria.Filter, bands criteria.Bands) ([]int64, error)
	CountByCategory(ctx context.Context, f criteria.Filter) ([]models.CategoryCount, error)
}

// Options tune how loose request parameters are interpreted.
type Options struct {
	MonthMode  criteria.MonthMode
	SoldPolicy criteria.SoldPolicy
	MaxPerPage int
	Bands      criteria.Bands
}

// TransactionQueryService turns month/search/page parameters into store
// filters and shapes the results of the five read endpoints.
type TransactionQueryService struct {
	reader TransactionReader
	opts   Options
}

func NewTransactionQueryService(reader TransactionReader, opts Options) *TransactionQueryService {
	if opts.MonthMode == "" {
		opts.MonthMode = criteria.MonthCalendar
	}
	if opts.SoldPolicy == "" {
		opts.SoldPolicy = criteria.SoldAll
	}
	if opts.Bands.Closed <= 0 || opts.Bands.Width <= 0 {
		opts.Bands = criteria.DefaultBands
	}
	return &TransactionQueryService{reader: reader, opts: opts}
}

func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
	f := criteria.ForMonth(q.Month, s.opts.MonthMode).WithSearch(q.Search)
	page := criteria.NewPage(q.Page, q.PerPage, s.opts.MaxPerPage)
	return s.reader.List(ctx, f, page)
}

func (s *TransactionQueryService) GetStatistics(ctx context.Context, q cqrs.MonthQuery) (*models.Statistics, error) {
	return s.reader.Statistics(ctx, s.monthFilter(q), s.opts.SoldPolicy)
}

// GetBarChart reports every price band, including empty ones, in band order.
func (s *TransactionQueryService) GetBarChart(ctx context.Context, q cqrs.MonthQuery) ([]models.PriceBandCount, error) {
	counts, err := s.reader.CountByPriceBand(ctx, s.monthFilter(q), s.opts.Bands)
	if err != nil {
		return nil, err
	}
	chart := make([]models.PriceBandCount, s.opts.Bands.Len())
	for i := range chart {
		chart[i].Range = s.opts.Bands.Label(i)
		if i < len(counts) {
			chart[i].Count = counts[i]
		}
	}
	return chart, nil
}

// GetPieChart reports only the categories present among the matches.
func (s *TransactionQueryService) GetPieChart(ctx context.Context, q cqrs.MonthQuery) ([]models.CategoryCount, error) {
	return s.reader.CountByCategory(ctx, s.monthFilter(q))
}

// GetCombined runs the four month-scoped queries concurrently. The first
// failure cancels the others and fails the whole view.
func (s *TransactionQueryService) GetCombined(ctx context.Context, q cqrs.MonthQuery) (*models.CombinedView, error) {
	var view models.CombinedView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		transactions, err := s.ListTransactions(gctx, cqrs.ListTransactionsQuery{Month: q.Month})
		view.Transactions = transactions
		return err
	})
	g.Go(func() error {
		stats, err := s.GetStatistics(gctx, q)
		view.Statistics = stats
		return err
	})
	g.Go(func() error {
		bars, err := s.GetBarChart(gctx, q)
		view.BarChart = bars
		return err
	})
	g.Go(func() error {
		pie, err := s.GetPieChart(gctx, q)
		view.PieChart = pie
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *TransactionQueryService) monthFilter(q cqrs.MonthQuery) criteria.Filter {
	return criteria.ForMonth(q.Month, s.opts.MonthMode)
}
