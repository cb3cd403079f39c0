package sniper

import (
	"errors"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/relay"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/router"
)

// Policy rejections. These are hard failures raised before any transaction
// is signed or broadcast; retrying with the same parameters yields the same
// rejection and no on-chain side effects.
var (
	ErrSniperDisabled     = errors.New("sniper execution is disabled")
	ErrPriceImpactTooHigh = errors.New("price impact exceeds slippage limit")
	ErrAllProvidersFailed = errors.New("all relay providers failed")
)

// SnipeParams describes one trade to execute. AmountIn is in the input
// mint's base units. SlippageBps of 0 falls back to the configured limit.
type SnipeParams struct {
	InputMint   string  `json:"input_mint"`
	OutputMint  string  `json:"output_mint"`
	AmountIn    uint64  `json:"amount_in"`
	NotionalUSD float64 `json:"notional_usd"`

	SlippageBps   uint16 `json:"slippage_bps,omitempty"`
	AllowMultiHop bool   `json:"allow_multi_hop,omitempty"`
}

// StageTimings breaks the end-to-end latency into pipeline stages so a
// missed latency target can be attributed
type StageTimings struct {
	QuoteMs  int64 `json:"quote_ms"`
	FeeMs    int64 `json:"fee_ms"`
	BuildMs  int64 `json:"build_ms"`
	SubmitMs int64 `json:"submit_ms"`
}

// ExecutionResult is the outcome of one snipe attempt. On success,
// Signature is the first transaction signature reported by the winning
// provider. Race carries the full per-provider result set when it has
// settled; on the fast path it may still be collecting in the background.
type ExecutionResult struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`

	PriorityFee uint64 `json:"priority_fee"`
	Congestion  string `json:"congestion,omitempty"`

	Quote *router.RouteQuote `json:"quote,omitempty"`
	Race  *relay.RaceResult  `json:"race,omitempty"`

	Timings        StageTimings `json:"timings"`
	TotalElapsedMs int64        `json:"total_elapsed_ms"`
	TargetMissed   bool         `json:"target_missed"`

	ErrorMessage string `json:"error_message,omitempty"`
}
