package orca

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// LegacyPoolConfig represents a pool entry in the JSON config
type LegacyPoolConfig struct {
	Name           string `json:"name"`
	TokenMintA     string `json:"token_mint_a"`
	TokenMintB     string `json:"token_mint_b"`
	VaultA         string `json:"vault_a"`
	VaultB         string `json:"vault_b"`
	FeeNumerator   uint64 `json:"fee_numerator"`
	FeeDenominator uint64 `json:"fee_denominator"`
}

// PoolRegistry holds all configured pools
type PoolRegistry struct {
	pools []LegacyPool
}

// NewPoolRegistry loads pools from a JSON file
func NewPoolRegistry(configPath string) (*PoolRegistry, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool config: %w", err)
	}

	var configs []LegacyPoolConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	pools := make([]LegacyPool, 0, len(configs))
	for i, cfg := range configs {
		pool, err := parsePoolConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("pool %d (%s): %w", i, cfg.Name, err)
		}
		pools = append(pools, pool)
	}

	return &PoolRegistry{pools: pools}, nil
}

// NewPoolRegistryFromPools wraps an in-memory pool list (used by tests)
func NewPoolRegistryFromPools(pools []LegacyPool) *PoolRegistry {
	return &PoolRegistry{pools: pools}
}

func parsePoolConfig(cfg LegacyPoolConfig) (LegacyPool, error) {
	if cfg.FeeDenominator == 0 {
		return LegacyPool{}, fmt.Errorf("fee_denominator must be > 0")
	}

	mintA, err := solana.PublicKeyFromBase58(cfg.TokenMintA)
	if err != nil {
		return LegacyPool{}, fmt.Errorf("token_mint_a: %w", err)
	}
	mintB, err := solana.PublicKeyFromBase58(cfg.TokenMintB)
	if err != nil {
		return LegacyPool{}, fmt.Errorf("token_mint_b: %w", err)
	}
	vaultA, err := solana.PublicKeyFromBase58(cfg.VaultA)
	if err != nil {
		return LegacyPool{}, fmt.Errorf("vault_a: %w", err)
	}
	vaultB, err := solana.PublicKeyFromBase58(cfg.VaultB)
	if err != nil {
		return LegacyPool{}, fmt.Errorf("vault_b: %w", err)
	}

	return LegacyPool{
		Name:           cfg.Name,
		TokenMintA:     mintA,
		TokenMintB:     mintB,
		VaultA:         vaultA,
		VaultB:         vaultB,
		FeeNumerator:   cfg.FeeNumerator,
		FeeDenominator: cfg.FeeDenominator,
	}, nil
}

// FindPoolByMints searches for a pool matching the given token pair
func (r *PoolRegistry) FindPoolByMints(mintA, mintB solana.PublicKey) (*LegacyPool, error) {
	for i := range r.pools {
		pool := &r.pools[i]

		// Check both directions: A->B and B->A
		if (pool.TokenMintA.Equals(mintA) && pool.TokenMintB.Equals(mintB)) ||
			(pool.TokenMintA.Equals(mintB) && pool.TokenMintB.Equals(mintA)) {
			return pool, nil
		}
	}

	return nil, fmt.Errorf("no pool found for mints %s / %s", mintA, mintB)
}

// PoolCount returns the number of registered pools
func (r *PoolRegistry) PoolCount() int {
	return len(r.pools)
}
