package relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
)

// JitoProvider submits bundles to a Jito-style block engine via the
// sendBundle JSON-RPC method. Bundles accepted by a block engine are
// forwarded to the current leader with anti-front-running guarantees.
type JitoProvider struct {
	id      string
	client  *rpc.Client
	timeout time.Duration
	logger  *logrus.Logger
}

// NewJitoProvider builds a provider for one block engine URL. The id is
// derived from the engine host so per-provider results are attributable.
func NewJitoProvider(engineURL string, timeout time.Duration, logger *logrus.Logger) *JitoProvider {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	id := "jito:" + hostOf(engineURL)

	return &JitoProvider{
		id: id,
		client: rpc.NewClient(rpc.ClientConfig{
			BaseURL: strings.TrimRight(engineURL, "/") + "/bundles",
			Timeout: timeout,
			Logger:  logger,
		}),
		timeout: timeout,
		logger:  logger,
	}
}

func (p *JitoProvider) ID() string { return p.id }

func (p *JitoProvider) SubmitBundle(ctx context.Context, bundle *SignedBundle) *ProviderResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	encoded, err := bundle.EncodeBase58()
	if err != nil {
		return failedResult(p.id, err)
	}

	var resp struct {
		Result string        `json:"result"`
		Error  *rpc.RPCError `json:"error"`
	}

	params := []interface{}{encoded}
	if err := p.client.Call(ctx, "sendBundle", params, &resp); err != nil {
		return failedResult(p.id, fmt.Errorf("sendBundle failed: %w", err))
	}
	if resp.Error != nil {
		return failedResult(p.id, fmt.Errorf("sendBundle error: code=%d, message=%s", resp.Error.Code, resp.Error.Message))
	}

	p.logger.WithFields(logrus.Fields{
		"provider":  p.id,
		"bundle_id": resp.Result,
	}).Debug("bundle accepted by block engine")

	return &ProviderResult{
		ProviderID: p.id,
		Success:    true,
		Signatures: bundle.Signatures(),
	}
}

func hostOf(rawURL string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
