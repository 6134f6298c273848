package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "rafflescope",
		Short:        "Raffle activity indexer and aggregator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync raffle events from the indexer",
		RunE:  runSync,
	}

	syncCmd.Flags().String("indexer", "", "indexer GraphQL endpoint")
	syncCmd.Flags().String("contract", "", "raffle contract address")
	syncCmd.Flags().Int("page-size", 100, "events per page")
	syncCmd.Flags().Duration("poll-interval", 0, "poll interval, 0 runs a single pass")
	syncCmd.Flags().String("out", "./data/activities.jsonl", "output JSONL path")
	syncCmd.Flags().String("errors", "./data/parse_errors.jsonl", "parse errors JSONL path")
	syncCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	syncCmd.Flags().String("state-file", "./data/sync_state.json", "sync state file path")
	syncCmd.Flags().Int("max-retries", 3, "maximum retry attempts per query")
	syncCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	syncCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(syncCmd)

	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the ticket-purchase leaderboard",
		RunE:  runLeaderboard,
	}
	addQueryFlags(leaderboardCmd)
	root.AddCommand(leaderboardCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print raffle or platform statistics",
		RunE:  runStats,
	}
	addQueryFlags(statsCmd)
	root.AddCommand(statsCmd)

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the reconciled balance for an address",
		RunE:  runBalance,
	}

	balanceCmd.Flags().String("indexer", "", "indexer GraphQL endpoint")
	balanceCmd.Flags().String("node", "", "chain node API base URL")
	balanceCmd.Flags().String("address", "", "account address")
	balanceCmd.Flags().String("coin-type", "0x1::aptos_coin::AptosCoin", "legacy coin type tag")
	balanceCmd.Flags().String("asset-type", "", "fungible asset metadata address")
	balanceCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(balanceCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("indexer", "", "indexer GraphQL endpoint")
	cmd.Flags().String("backend", "", "backend cache API base URL (optional)")
	cmd.Flags().String("contract", "", "raffle contract address")
	cmd.Flags().Uint64("raffle-id", 0, "raffle id, 0 means global")
	cmd.Flags().Int("limit", 50, "maximum entries")
	cmd.Flags().Int("page-size", 100, "events per indexer page")
	cmd.Flags().Duration("cache-ttl", 15*time.Second, "result cache TTL")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for snapshot persistence (optional)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
