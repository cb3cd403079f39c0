package rpc

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// PrioritizationFee is one entry from getRecentPrioritizationFees.
// The fee is in micro-lamports per compute unit.
type PrioritizationFee struct {
	Slot              uint64 `json:"slot"`
	PrioritizationFee uint64 `json:"prioritizationFee"`
}

// PrioritizationFeesResponse is the response from getRecentPrioritizationFees
type PrioritizationFeesResponse struct {
	Result []PrioritizationFee `json:"result"`
	Error  *RPCError           `json:"error"`
}

// SendTransactionResponse is the response from sendTransaction
type SendTransactionResponse struct {
	Result string    `json:"result"`
	Error  *RPCError `json:"error"`
}
