package router

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/constants"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/jupiter"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/orca"
)

// VenueAdapter prices a quote request against one liquidity source.
// Adapters return ErrVenueUnavailable when they simply have no route;
// venues without an implementation are absent from the configured set
// rather than present-but-always-failing.
type VenueAdapter interface {
	Name() string
	Quote(ctx context.Context, req QuoteRequest) (*RouteQuote, error)
}

// JupiterAdapter wraps the aggregator quote API
type JupiterAdapter struct {
	client *jupiter.Client
}

func NewJupiterAdapter(client *jupiter.Client) *JupiterAdapter {
	return &JupiterAdapter{client: client}
}

func (a *JupiterAdapter) Name() string { return constants.VenueJupiter }

func (a *JupiterAdapter) Quote(ctx context.Context, req QuoteRequest) (*RouteQuote, error) {
	slippage := req.SlippageBps
	directOnly := !req.AllowMultiHop

	start := time.Now()
	resp, err := a.client.Quote(ctx, jupiter.QuoteRequest{
		InputMint:        req.InputMint,
		OutputMint:       req.OutputMint,
		Amount:           strconv.FormatUint(req.AmountIn, 10),
		SlippageBps:      &slippage,
		OnlyDirectRoutes: &directOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("jupiter quote: %w", err)
	}
	latency := time.Since(start).Milliseconds()

	outAmount, err := strconv.ParseUint(resp.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("jupiter quote: invalid outAmount %q: %w", resp.OutAmount, err)
	}

	impact, err := strconv.ParseFloat(resp.PriceImpactPct, 64)
	if err != nil {
		impact = 0
	}

	return &RouteQuote{
		InputMint:      req.InputMint,
		OutputMint:     req.OutputMint,
		InAmount:       req.AmountIn,
		OutAmount:      outAmount,
		PriceImpactPct: impact,
		Provider:       a.Name(),
		LatencyMs:      latency,
		Raw:            resp,
	}, nil
}

// OrcaAdapter quotes against legacy constant-product pools directly from
// on-chain reserves
type OrcaAdapter struct {
	client *orca.Client
}

func NewOrcaAdapter(client *orca.Client) *OrcaAdapter {
	return &OrcaAdapter{client: client}
}

func (a *OrcaAdapter) Name() string { return constants.VenueOrcaLegacy }

func (a *OrcaAdapter) Quote(ctx context.Context, req QuoteRequest) (*RouteQuote, error) {
	inputMint, err := solana.PublicKeyFromBase58(req.InputMint)
	if err != nil {
		return nil, fmt.Errorf("orca quote: input mint: %w", err)
	}
	outputMint, err := solana.PublicKeyFromBase58(req.OutputMint)
	if err != nil {
		return nil, fmt.Errorf("orca quote: output mint: %w", err)
	}

	start := time.Now()
	quote, err := a.client.Quote(ctx, inputMint, outputMint, req.AmountIn)
	if err != nil {
		// No configured pool for this pair means the venue has nothing
		// to offer, not that the comparison failed
		return nil, ErrVenueUnavailable
	}
	latency := time.Since(start).Milliseconds()

	return &RouteQuote{
		InputMint:      req.InputMint,
		OutputMint:     req.OutputMint,
		InAmount:       req.AmountIn,
		OutAmount:      quote.AmountOut,
		PriceImpactPct: quote.PriceImpact * 100,
		Provider:       a.Name(),
		LatencyMs:      latency,
	}, nil
}
