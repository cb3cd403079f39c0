package router

import (
	"errors"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/jupiter"
)

// ErrVenueUnavailable marks a venue that has no route for the requested
// pair. It excludes the venue from comparison without failing the request.
var ErrVenueUnavailable = errors.New("venue unavailable")

// ErrNoQuote means not even the aggregator produced a route
var ErrNoQuote = errors.New("no route for requested pair")

// QuoteRequest describes one logical swap to be priced across venues
type QuoteRequest struct {
	InputMint  string
	OutputMint string
	AmountIn   uint64

	SlippageBps   uint16
	AllowMultiHop bool
}

// RouteQuote is one venue's answer for a quote request. PriceImpactPct is
// in percent units (0.2 = 0.2%). LatencyMs is measured by the comparator's
// own clock so quotes from different venues are comparable.
type RouteQuote struct {
	InputMint      string
	OutputMint     string
	InAmount       uint64
	OutAmount      uint64
	PriceImpactPct float64
	Provider       string
	LatencyMs      int64

	// Aggregator payload needed to build the unsigned transaction;
	// nil for direct-venue quotes
	Raw *jupiter.QuoteResponse
}

// Comparison is the full result set for one quote request. Exactly one
// quote is marked Best.
type Comparison struct {
	Aggregator *RouteQuote
	Venues     []*RouteQuote
	Best       *RouteQuote
}
