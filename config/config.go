// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration. Addresses are 20-byte hex
// account identifiers; caps and vesting parameters are fixed constants in the
// vesting package and deliberately not configurable.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `env:"ROWA_LISTEN_ADDR" envDefault:":8080"`
	// StatePath is the SQLite database path; empty runs on the in-memory
	// store (state is then lost on restart).
	StatePath string `env:"ROWA_STATE_PATH"`
	// OwnerAddress is the single owner account for gated operations.
	OwnerAddress string `env:"ROWA_OWNER_ADDRESS,required"`
	// TokenAddress is the ledger binding reported by the query surface.
	TokenAddress string `env:"ROWA_TOKEN_ADDRESS,required"`
	// PoolAddress is the vesting pool account the supply is minted to.
	PoolAddress string `env:"ROWA_POOL_ADDRESS,required"`

	// Fixed recipients of the four single-shot treasury funds.
	VGPFundAddress       string `env:"ROWA_VGP_FUND_ADDRESS,required"`
	LPFundAddress        string `env:"ROWA_LP_FUND_ADDRESS,required"`
	LiquidityFundAddress string `env:"ROWA_LIQUIDITY_FUND_ADDRESS,required"`
	ReserveFundAddress   string `env:"ROWA_RESERVE_FUND_ADDRESS,required"`

	// Debug switches zap to development logging.
	Debug bool `env:"ROWA_DEBUG" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
