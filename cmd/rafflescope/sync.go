package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"raffleScope/internal/config"
	"raffleScope/internal/enrich"
	"raffleScope/internal/indexer"
	"raffleScope/internal/storage"
	"raffleScope/internal/storage/postgres"
	syncer "raffleScope/internal/sync"
)

func runSync(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.IndexerURL == "" {
		return fmt.Errorf("indexer endpoint is required")
	}
	if cfg.ContractAddress == "" {
		return fmt.Errorf("contract address is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := indexer.NewClient(cfg.IndexerURL,
		indexer.WithLogger(logger),
		indexer.WithRetries(cfg.MaxRetries, cfg.RetryBackoff),
	)
	enricher := enrich.NewEnricher(client, logger)

	activitySink := storage.NewJsonlStorage(cfg.Out)
	errorSink := storage.NewJsonlErrorSink(cfg.Errors)

	var db syncer.DBStore
	var state syncer.StateStore = &syncer.FileStateStore{Path: cfg.StateFile}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		db = store
		state = &syncer.DBStateStore{Store: store, Name: "raffle_events"}
	}

	logger.Info("starting sync",
		zap.String("indexer", cfg.IndexerURL),
		zap.String("contract", cfg.ContractAddress),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	runner := syncer.NewRunner(syncer.RunConfig{
		ContractAddress: cfg.ContractAddress,
		PageSize:        cfg.PageSize,
		PollInterval:    cfg.PollInterval,
	}, client, enricher, activitySink, db, errorSink, state, logger)

	if err := runner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("sync stopped")
			return nil
		}
		return err
	}
	return nil
}
