package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
)

// RPCProvider submits each bundle transaction through a plain
// sendTransaction endpoint. It carries no atomicity or anti-front-running
// guarantees but works against any Solana RPC node, including the
// MEV-protected private endpoints chosen by the endpoint selector.
type RPCProvider struct {
	id            string
	client        *rpc.Client
	timeout       time.Duration
	skipPreflight bool
	logger        *logrus.Logger
}

func NewRPCProvider(id string, client *rpc.Client, timeout time.Duration, logger *logrus.Logger) *RPCProvider {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCProvider{
		id:      id,
		client:  client,
		timeout: timeout,
		// Preflight simulation costs a round trip; sniper submissions
		// are pre-validated by the quote and cannot afford it
		skipPreflight: true,
		logger:        logger,
	}
}

func (p *RPCProvider) ID() string { return p.id }

func (p *RPCProvider) SubmitBundle(ctx context.Context, bundle *SignedBundle) *ProviderResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	encoded, err := bundle.EncodeBase64()
	if err != nil {
		return failedResult(p.id, err)
	}

	signatures := make([]string, 0, len(encoded))
	for i, tx := range encoded {
		sig, err := p.client.SendRawTransaction(ctx, tx, p.skipPreflight)
		if err != nil {
			return failedResult(p.id, fmt.Errorf("sendTransaction %d/%d failed: %w", i+1, len(encoded), err))
		}
		signatures = append(signatures, sig)
	}

	p.logger.WithFields(logrus.Fields{
		"provider": p.id,
		"txs":      len(signatures),
	}).Debug("bundle submitted via sendTransaction")

	return &ProviderResult{
		ProviderID: p.id,
		Success:    true,
		Signatures: signatures,
	}
}
