// Package app wires configuration, store, services and the HTTP server
// together and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salesboard/txstats/internal/command"
	"github.com/salesboard/txstats/internal/config"
	"github.com/salesboard/txstats/internal/criteria"
	"github.com/salesboard/txstats/internal/db"
	"github.com/salesboard/txstats/internal/handler"
	"github.com/salesboard/txstats/internal/query"
	"github.com/salesboard/txstats/internal/repository"
	"github.com/salesboard/txstats/shared/cqrs"
	"github.com/salesboard/txstats/shared/events"
	sharedredis "github.com/salesboard/txstats/shared/redis"
)

type App struct {
	cfg      *config.Config
	log      *zap.Logger
	queries  *query.TransactionQueryService
	commands *command.DatasetCommandService
	closers  []func() error
}

// New opens the configured store and optional Redis connection. Close
// releases them.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	var reader query.TransactionReader
	var writer command.TransactionWriter
	switch cfg.Store.Driver {
	case "memory":
		store := repository.NewMemoryRepository()
		reader, writer = store, store
		log.Info("using in-memory store")
	default:
		conn, err := db.Open(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		reader = repository.NewTransactionReadRepository(conn)
		writer = repository.NewTransactionWriteRepository(conn)
		log.Info("connected to postgres")
	}

	var publisher command.EventPublisher
	if cfg.Redis.Addr != "" {
		client, err := sharedredis.NewClient(ctx, sharedredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("redis unavailable, dataset events disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, client.Close)
			publisher = events.NewPublisher(client.Client)
		}
	}

	a.queries = query.NewTransactionQueryService(reader, query.Options{
		MonthMode:  criteria.MonthMode(cfg.Query.MonthMatch),
		SoldPolicy: criteria.SoldPolicy(cfg.Query.SoldPolicy),
		MaxPerPage: cfg.Query.MaxPerPage,
		Bands:      criteria.DefaultBands,
	})
	a.commands = command.NewDatasetCommandService(writer, publisher, log, command.Options{
		SkipIfPopulated: cfg.Seed.SkipIfPopulated,
		Timeout:         cfg.Seed.Timeout,
	})
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Seed loads the configured dataset. force reseeds a populated store.
func (a *App) Seed(ctx context.Context, force bool) (int, error) {
	return a.commands.SeedDataset(ctx, cqrs.SeedDatasetCommand{
		SourceURL: a.cfg.Seed.URL,
		Force:     force,
	})
}

// Handler returns the HTTP router for the read endpoints.
func (a *App) Handler() http.Handler {
	gin.SetMode(a.cfg.Server.GinMode)
	return handler.NewRouter(handler.NewTransactionHandler(a.queries, a.log), a.log)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully. When seed is set the dataset is loaded in the background; a
// failed seed is logged and the server keeps serving. Serve returns only
// after the background seed has finished.
func (a *App) Serve(ctx context.Context, seed bool) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var seeding sync.WaitGroup
	defer seeding.Wait()
	if seed {
		seeding.Add(1)
		go func() {
			defer seeding.Done()
			if _, err := a.Seed(ctx, false); err != nil {
				a.log.Error("error initializing database", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server is running", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
