package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"dexswap/pkg/tokens"
	"dexswap/pkg/types"

	"github.com/ethereum/go-ethereum/common"
)

// Uniswap V2 router on Ethereum mainnet.
const DefaultRouterAddress = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"

// Config holds the application configuration
type Config struct {
	RPCURL        string
	PrivateKey    string
	RouterAddress string
	// ChainID, when non-zero, must match the endpoint's chain id; a mismatch
	// is refused at connect time.
	ChainID         int64
	SlippageBps     int64
	DeadlineMinutes int64
	Tokens          []TokenEntry
}

// TokenEntry is one configured token. An empty list falls back to the
// built-in registry.
type TokenEntry struct {
	Symbol   string `mapstructure:"symbol"`
	Address  string `mapstructure:"address"`
	Decimals uint8  `mapstructure:"decimals"`
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".dexswap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("router_address", DefaultRouterAddress)
	viper.SetDefault("slippage_bps", 50)
	viper.SetDefault("deadline_minutes", 10)

	// Read from environment variables
	viper.SetEnvPrefix("DEXSWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		RPCURL:          viper.GetString("rpc_url"),
		PrivateKey:      viper.GetString("private_key"),
		RouterAddress:   viper.GetString("router_address"),
		ChainID:         viper.GetInt64("chain_id"),
		SlippageBps:     viper.GetInt64("slippage_bps"),
		DeadlineMinutes: viper.GetInt64("deadline_minutes"),
	}
	if err := viper.UnmarshalKey("tokens", &cfg.Tokens); err != nil {
		return nil, fmt.Errorf("invalid tokens list: %w", err)
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC endpoint not found. Please set DEXSWAP_RPC_URL environment variable or create a .dexswap.yaml config file")
	}
	if !common.IsHexAddress(cfg.RouterAddress) {
		return nil, fmt.Errorf("invalid router address %q", cfg.RouterAddress)
	}

	globalConfig = cfg
	return cfg, nil
}

// Router returns the configured router contract address.
func (c *Config) Router() common.Address {
	return common.HexToAddress(c.RouterAddress)
}

// Registry builds the token registry from the configured list, or the
// built-in defaults when none is configured.
func (c *Config) Registry() (*tokens.Registry, error) {
	if len(c.Tokens) == 0 {
		return tokens.Default(), nil
	}
	list := make([]types.Token, 0, len(c.Tokens))
	for _, e := range c.Tokens {
		if !common.IsHexAddress(e.Address) {
			return nil, fmt.Errorf("token %s: invalid address %q", e.Symbol, e.Address)
		}
		list = append(list, types.Token{
			Symbol:   e.Symbol,
			Address:  common.HexToAddress(e.Address),
			Decimals: e.Decimals,
		})
	}
	return tokens.New(list)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
