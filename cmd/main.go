package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salesboard/txstats/internal/app"
	"github.com/salesboard/txstats/internal/config"
	"github.com/salesboard/txstats/shared/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "txstats",
		Short: "Read-only statistics over product sale transactions",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")

	rootCmd.AddCommand(newServeCommand(&configPath), newSeedCommand(&configPath))
	return rootCmd
}

func newServeCommand(configPath *string) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transaction endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *configPath, func(ctx context.Context, cfg *config.Config, a *app.App) error {
				if !cmd.Flags().Changed("seed") {
					seed = cfg.Seed.OnStart
				}
				return a.Serve(ctx, seed)
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "seed the store in the background on start (defaults to SEED_ON_START)")
	return cmd
}

func newSeedCommand(configPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the remote dataset into the store and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *configPath, func(ctx context.Context, cfg *config.Config, a *app.App) error {
				n, err := a.Seed(ctx, force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d transactions from %s\n", n, cfg.Seed.URL)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when the store already holds transactions")
	return cmd
}

// withApp loads configuration, builds the logger and application, and runs
// fn with a context cancelled on SIGINT or SIGTERM.
func withApp(parent context.Context, configPath string, fn func(context.Context, *config.Config, *app.App) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start", zap.Error(err))
		return err
	}
	defer a.Close()

	return fn(ctx, cfg, a)
}
