package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"raffleScope/internal/chain"
	"raffleScope/internal/config"
	"raffleScope/internal/indexer"
	"raffleScope/internal/reconcile"
)

func runBalance(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadBalance(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.NodeURL == "" {
		return fmt.Errorf("node API base URL is required")
	}
	if cfg.IndexerURL == "" {
		return fmt.Errorf("indexer endpoint is required")
	}
	if cfg.Address == "" {
		return fmt.Errorf("account address is required")
	}

	node := chain.NewClient(cfg.NodeURL)
	graph := indexer.NewClient(cfg.IndexerURL, indexer.WithLogger(logger))
	reconciler := reconcile.NewReconciler(node, graph, cfg.CoinType, cfg.AssetType, logger)

	logger.Debug("fetching balance",
		zap.String("address", cfg.Address),
		zap.String("coin_type", cfg.CoinType),
		zap.String("asset_type", cfg.AssetType),
	)

	reading := reconciler.Balance(cmd.Context(), cfg.Address)
	return printJSON(reading)
}
