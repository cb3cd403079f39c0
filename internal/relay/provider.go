package relay

import "context"

// ProviderResult is one provider's outcome for one race attempt.
// Never mutated after creation. LatencyMs is stamped by the race executor's
// clock so results from different providers are comparable.
type ProviderResult struct {
	ProviderID   string   `json:"provider_id"`
	Success      bool     `json:"success"`
	Signatures   []string `json:"signatures,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	LatencyMs    int64    `json:"latency_ms"`
}

// Provider submits a signed bundle to one relay service. Implementations
// convert every upstream failure into a ProviderResult with Success=false
// rather than returning an error: a single broken relay must never abort
// an otherwise-successful race. Timeouts are provider-specific and applied
// inside the adapter.
type Provider interface {
	ID() string
	SubmitBundle(ctx context.Context, bundle *SignedBundle) *ProviderResult
}

func failedResult(providerID string, err error) *ProviderResult {
	return &ProviderResult{
		ProviderID:   providerID,
		ErrorMessage: err.Error(),
	}
}
