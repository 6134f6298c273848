package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"raffleScope/internal/backend"
	"raffleScope/internal/config"
	"raffleScope/internal/enrich"
	"raffleScope/internal/indexer"
	"raffleScope/internal/model"
	"raffleScope/internal/service"
	"raffleScope/internal/storage/postgres"
)

func runLeaderboard(cmd *cobra.Command, args []string) error {
	cfg, svc, cleanup, err := newQueryService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var entries []model.LeaderboardEntry
	scope := "global"
	if cfg.RaffleID > 0 {
		entries = svc.RaffleLeaderboard(cmd.Context(), cfg.RaffleID, cfg.Limit)
		scope = fmt.Sprintf("raffle:%d", cfg.RaffleID)
	} else {
		entries = svc.GlobalLeaderboard(cmd.Context(), cfg.Limit)
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(cmd.Context(), cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.UpsertLeaderboard(cmd.Context(), scope, entries); err != nil {
			return fmt.Errorf("persist leaderboard: %w", err)
		}
	}

	return printJSON(entries)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, svc, cleanup, err := newQueryService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var stats model.RaffleStats
	if cfg.RaffleID > 0 {
		stats = svc.RaffleStats(cmd.Context(), cfg.RaffleID)
	} else {
		stats = svc.PlatformStats(cmd.Context())
	}

	return printJSON(stats)
}

func newQueryService(cmd *cobra.Command) (config.QueryConfig, *service.ActivityService, func(), error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuery(cfgFile, cmd.Flags())
	if err != nil {
		return config.QueryConfig{}, nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.QueryConfig{}, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.IndexerURL == "" {
		logger.Sync()
		return config.QueryConfig{}, nil, nil, fmt.Errorf("indexer endpoint is required")
	}
	if cfg.ContractAddress == "" {
		logger.Sync()
		return config.QueryConfig{}, nil, nil, fmt.Errorf("contract address is required")
	}

	client := indexer.NewClient(cfg.IndexerURL, indexer.WithLogger(logger))
	enricher := enrich.NewEnricher(client, logger)

	var api service.BackendAPI
	if cfg.BackendURL != "" {
		api = backend.NewClient(cfg.BackendURL, backend.WithLogger(logger))
	}

	svc := service.NewActivityService(service.Config{
		ContractAddress: cfg.ContractAddress,
		PageSize:        cfg.PageSize,
		CacheTTL:        cfg.CacheTTL,
	}, api, client, enricher, logger)

	cleanup := func() { logger.Sync() }
	return cfg, svc, cleanup, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
