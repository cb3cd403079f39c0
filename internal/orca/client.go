package orca

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
)

// Client provides quoting against legacy Orca constant-product pools.
// It shares the injected RPC client rather than owning a connection.
type Client struct {
	rpcClient *rpc.Client
	registry  *PoolRegistry
}

func NewClient(rpcClient *rpc.Client, registry *PoolRegistry) *Client {
	return &Client{rpcClient: rpcClient, registry: registry}
}

// Quote refreshes pool reserves and computes the constant-product output
// for a swap of amountIn from inputMint to outputMint
func (c *Client) Quote(ctx context.Context, inputMint, outputMint solana.PublicKey, amountIn uint64) (*SwapQuote, error) {
	pool, err := c.registry.FindPoolByMints(inputMint, outputMint)
	if err != nil {
		return nil, err
	}

	aToB := pool.TokenMintA.Equals(inputMint)

	state, err := c.refreshPoolState(ctx, pool)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut := state.GetReserves(aToB)

	amountOut, priceImpact, err := CalculateSwapOutput(
		amountIn,
		reserveIn,
		reserveOut,
		pool.FeeNumerator,
		pool.FeeDenominator,
	)
	if err != nil {
		return nil, err
	}

	return &SwapQuote{
		PoolName:    pool.Name,
		InputMint:   inputMint,
		OutputMint:  outputMint,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		FeeBps:      CalculateFeeBps(pool.FeeNumerator, pool.FeeDenominator),
		PriceImpact: priceImpact,
		ReserveIn:   reserveIn,
		ReserveOut:  reserveOut,
	}, nil
}

func (c *Client) refreshPoolState(ctx context.Context, pool *LegacyPool) (*PoolState, error) {
	reserveA, err := c.getTokenAccountBalance(ctx, pool.VaultA)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vault A balance: %w", err)
	}

	reserveB, err := c.getTokenAccountBalance(ctx, pool.VaultB)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vault B balance: %w", err)
	}

	return &PoolState{
		Pool:      pool,
		ReserveA:  reserveA,
		ReserveB:  reserveB,
		Timestamp: time.Now().Unix(),
	}, nil
}

func (c *Client) getTokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	var resp struct {
		Result struct {
			Value struct {
				Amount   string `json:"amount"`
				Decimals uint8  `json:"decimals"`
			} `json:"value"`
		} `json:"result"`
		Error *rpc.RPCError `json:"error"`
	}

	params := []interface{}{account.String()}

	if err := c.rpcClient.Call(ctx, "getTokenAccountBalance", params, &resp); err != nil {
		return 0, fmt.Errorf("getTokenAccountBalance failed: %w", err)
	}
	if resp.Error != nil {
		return 0, fmt.Errorf("getTokenAccountBalance error: %s", resp.Error.Message)
	}

	amount, err := strconv.ParseUint(resp.Result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %w", err)
	}

	return amount, nil
}
