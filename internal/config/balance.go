package config

import (
	"github.com/spf13/pflag"
)

// BalanceConfig holds configuration for the balance command.
type BalanceConfig struct {
	IndexerURL string
	NodeURL    string
	Address    string
	CoinType   string
	AssetType  string
	LogLevel   string
}

// LoadBalance merges config file, environment variables, and flags into
// BalanceConfig.
func LoadBalance(cfgFile string, flags *pflag.FlagSet) (BalanceConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"coin-type": "0x1::aptos_coin::AptosCoin",
		"log-level": "info",
	})
	if err != nil {
		return BalanceConfig{}, err
	}

	cfg := BalanceConfig{
		IndexerURL: v.GetString("indexer"),
		NodeURL:    v.GetString("node"),
		Address:    v.GetString("address"),
		CoinType:   v.GetString("coin-type"),
		AssetType:  v.GetString("asset-type"),
		LogLevel:   v.GetString("log-level"),
	}

	return cfg, nil
}
