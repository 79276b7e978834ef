package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/salesboard/txstats/shared/cqrs"
	"github.com/salesboard/txstats/shared/events"
	"github.com/salesboard/txstats/shared/models"
)

// TransactionWriter is the write side of the store used while seeding.
type TransactionWriter interface {
	Count(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, transactions []models.Transaction) (int, error)
}

// EventPublisher announces a completed seed. It may be nil.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type Options struct {
	// SkipIfPopulated leaves a non-empty store untouched unless the command
	// forces a reseed.
	SkipIfPopulated bool
	Timeout         time.Duration
}

// DatasetCommandService performs the one-shot load of the remote product
// transaction dataset. It is the only writer of the store.
type DatasetCommandService struct {
	writer    TransactionWriter
	publisher EventPublisher
	client    *http.Client
	log       *zap.Logger
	opts      Options
}

func NewDatasetCommandService(writer TransactionWriter, publisher EventPublisher, log *zap.Logger, opts Options) *DatasetCommandService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &DatasetCommandService{
		writer:    writer,
		publisher: publisher,
		client:    &http.Client{Timeout: opts.Timeout},
		log:       log,
		opts:      opts,
	}
}

// SeedDataset fetches the dataset and stores it, returning the number of
// inserted transactions. Nothing is retried.
func (s *DatasetCommandService) SeedDataset(ctx context.Context, cmd cqrs.SeedDatasetCommand) (int, error) {
	if s.opts.SkipIfPopulated && !cmd.Force {
		existing, err := s.writer.Count(ctx)
		if err != nil {
			return 0, err
		}
		if existing > 0 {
			s.log.Info("store already seeded, skipping", zap.Int64("existing", existing))
			return 0, nil
		}
	}

	records, err := s.fetch(ctx, cmd.SourceURL)
	if err != nil {
		return 0, err
	}

	transactions := make([]models.Transaction, 0, len(records))
	for _, r := range records {
		transactions = append(transactions, r.ToTransaction())
	}

	inserted, err := s.writer.InsertBatch(ctx, transactions)
	if err != nil {
		return 0, err
	}
	s.log.Info("database initialized with seed data",
		zap.String("source", cmd.SourceURL),
		zap.Int("inserted", inserted),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.DatasetEventsStream, events.DatasetSeeded, events.DatasetSeededEvent{
			Source:   cmd.SourceURL,
			Inserted: inserted,
		}); err != nil {
			s.log.Warn("failed to publish dataset.seeded event", zap.Error(err))
		}
	}
	return inserted, nil
}

func (s *DatasetCommandService) fetch(ctx context.Context, url string) ([]models.SeedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("seed source returned %s: %s", resp.Status, snippet)
	}

	var records []models.SeedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return records, nil
}
