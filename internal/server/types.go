package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK            bool   `json:"ok"`
	SniperEnabled bool   `json:"sniper_enabled"`
	Wallet        string `json:"wallet,omitempty"`
}

// ExecuteRequest represents a trade execution request
type ExecuteRequest struct {
	InputMint   string  `json:"input_mint"`
	OutputMint  string  `json:"output_mint"`
	AmountIn    uint64  `json:"amount_in"`
	NotionalUSD float64 `json:"notional_usd"`

	SlippageBps   uint16 `json:"slippage_bps,omitempty"`
	AllowMultiHop bool   `json:"allow_multi_hop,omitempty"`
}

// FeeResponse represents a priority fee estimate
type FeeResponse struct {
	Urgency     string `json:"urgency"`
	PriorityFee uint64 `json:"priority_fee"` // micro-lamports per compute unit
	Congestion  string `json:"congestion"`
	AverageFee  uint64 `json:"average_fee"`
	P95         uint64 `json:"p95"`
	P99         uint64 `json:"p99"`
	Degraded    bool   `json:"degraded"`
}

// FlagUpsertRequest represents a request to create or update a feature flag
type FlagUpsertRequest struct {
	Key   string `json:"key"`   // Flag key (must match regex pattern)
	Value bool   `json:"value"` // Flag value (true/false)
}

// FlagUpdateRequest represents a request to update an existing feature flag
type FlagUpdateRequest struct {
	Value bool `json:"value"` // New flag value
}
