package orca

import (
	"github.com/gagliardetto/solana-go"
)

// Legacy Orca constant-product pool program ID
const (
	LegacyProgramID = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"
)

// LegacyPool holds the static configuration needed to quote against a
// legacy constant-product pool
type LegacyPool struct {
	Name           string
	TokenMintA     solana.PublicKey
	TokenMintB     solana.PublicKey
	VaultA         solana.PublicKey
	VaultB         solana.PublicKey
	FeeNumerator   uint64
	FeeDenominator uint64
}

// PoolState represents current on-chain state (reserves)
type PoolState struct {
	Pool      *LegacyPool
	ReserveA  uint64 // Current balance in vault A
	ReserveB  uint64 // Current balance in vault B
	Timestamp int64  // When fetched
}

// GetReserves returns reserves in the correct order for a swap direction
func (ps *PoolState) GetReserves(aToB bool) (reserveIn, reserveOut uint64) {
	if aToB {
		return ps.ReserveA, ps.ReserveB
	}
	return ps.ReserveB, ps.ReserveA
}

// SwapQuote contains quote details for a direct-venue swap
type SwapQuote struct {
	PoolName    string
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	AmountIn    uint64  // Raw input amount (with decimals)
	AmountOut   uint64  // Expected output (with decimals)
	FeeBps      uint16  // Fee in basis points
	PriceImpact float64 // Price impact fraction (0.01 = 1%)
	ReserveIn   uint64
	ReserveOut  uint64
}
