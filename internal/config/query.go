package config

import (
	"time"

	"github.com/spf13/pflag"
)

// QueryConfig holds configuration for the leaderboard and stats commands.
type QueryConfig struct {
	IndexerURL      string
	BackendURL      string
	ContractAddress string
	RaffleID        uint64
	Limit           int
	PageSize        int
	CacheTTL        time.Duration
	PGDSN           string
	LogLevel        string
}

// LoadQuery merges config file, environment variables, and flags into
// QueryConfig.
func LoadQuery(cfgFile string, flags *pflag.FlagSet) (QueryConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"limit":     50,
		"page-size": 100,
		"cache-ttl": 15 * time.Second,
		"log-level": "info",
	})
	if err != nil {
		return QueryConfig{}, err
	}

	cfg := QueryConfig{
		IndexerURL:      v.GetString("indexer"),
		BackendURL:      v.GetString("backend"),
		ContractAddress: v.GetString("contract"),
		RaffleID:        v.GetUint64("raffle-id"),
		Limit:           v.GetInt("limit"),
		PageSize:        v.GetInt("page-size"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		PGDSN:           v.GetString("pg-dsn"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}
