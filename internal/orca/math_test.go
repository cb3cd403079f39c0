package orca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSwapOutput(t *testing.T) {
	// Balanced 1000:1000 pool, 30 bps fee, swap 100 in
	out, impact, err := CalculateSwapOutput(100, 1000, 1000, 30, 10000)
	require.NoError(t, err)

	// after fee: 99; out = 99*1000/(1000+99) = 90
	assert.Equal(t, uint64(90), out)
	assert.Greater(t, impact, 0.0)
	assert.Less(t, impact, 1.0)
}

func TestCalculateSwapOutput_InvalidInputs(t *testing.T) {
	_, _, err := CalculateSwapOutput(0, 1000, 1000, 30, 10000)
	assert.Error(t, err)

	_, _, err = CalculateSwapOutput(100, 0, 1000, 30, 10000)
	assert.Error(t, err)

	_, _, err = CalculateSwapOutput(100, 1000, 1000, 30, 0)
	assert.Error(t, err)
}

func TestCalculateSwapOutput_ImpactGrowsWithSize(t *testing.T) {
	small, smallImpact, err := CalculateSwapOutput(10, 1_000_000, 1_000_000, 30, 10000)
	require.NoError(t, err)
	_, largeImpact, err := CalculateSwapOutput(500_000, 1_000_000, 1_000_000, 30, 10000)
	require.NoError(t, err)

	assert.Greater(t, largeImpact, smallImpact)
	assert.NotZero(t, small)
}

func TestApplySlippage(t *testing.T) {
	assert.Equal(t, uint64(990), ApplySlippage(1000, 100)) // 1%
	assert.Equal(t, uint64(1000), ApplySlippage(1000, 0))
	assert.Equal(t, uint64(0), ApplySlippage(1000, 10000))
}

func TestCalculateFeeBps(t *testing.T) {
	assert.Equal(t, uint16(30), CalculateFeeBps(30, 10000))
	assert.Equal(t, uint16(25), CalculateFeeBps(25, 10000))
	assert.Equal(t, uint16(0), CalculateFeeBps(30, 0))
}
