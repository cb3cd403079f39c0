package jupiter

type QuoteRequest struct {
	InputMint  string
	OutputMint string
	Amount     string // raw integer as string (uint64)

	SlippageBps *uint16
	SwapMode    string // ExactIn | ExactOut

	Dexes        []string
	ExcludeDexes []string

	RestrictIntermediateTokens *bool
	OnlyDirectRoutes           *bool
	AsLegacyTransaction        *bool

	MaxAccounts *uint64
}

type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             string          `json:"inAmount"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          uint16          `json:"slippageBps"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`

	ContextSlot uint64  `json:"contextSlot,omitempty"`
	TimeTaken   float64 `json:"timeTaken,omitempty"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  *uint8   `json:"percent,omitempty"`
	Bps      uint16   `json:"bps"`
}

type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label,omitempty"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
}

// SwapRequest asks Jupiter to build the unsigned transaction for a quote.
// PriorityFee is micro-lamports per compute unit.
type SwapRequest struct {
	UserPublicKey string         `json:"userPublicKey"`
	QuoteResponse *QuoteResponse `json:"quoteResponse"`

	WrapAndUnwrapSol bool `json:"wrapAndUnwrapSol"`

	ComputeUnitPriceMicroLamports uint64 `json:"computeUnitPriceMicroLamports,omitempty"`
	DynamicComputeUnitLimit       bool   `json:"dynamicComputeUnitLimit,omitempty"`
}

// SwapResponse carries the base64-encoded unsigned transaction
type SwapResponse struct {
	SwapTransaction      string `json:"swapTransaction"`
	LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`

	PrioritizationFeeLamports uint64 `json:"prioritizationFeeLamports,omitempty"`
	ComputeUnitLimit          uint64 `json:"computeUnitLimit,omitempty"`
}
