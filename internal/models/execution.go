package models

import "time"

// ExecutionEvent is the persisted record of one sniper execution attempt
type ExecutionEvent struct {
	Signature   string    `json:"signature"`
	Timestamp   time.Time `json:"timestamp"`
	Pair        string    `json:"pair"`
	InputMint   string    `json:"input_mint"`
	OutputMint  string    `json:"output_mint"`
	AmountIn    uint64    `json:"amount_in"`
	AmountOut   uint64    `json:"amount_out"`
	NotionalUSD float64   `json:"notional_usd"`
	PriorityFee uint64    `json:"priority_fee"`
	Provider    string    `json:"provider"`
	Endpoint    string    `json:"endpoint"`
	LatencyMs   int64     `json:"latency_ms"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}
