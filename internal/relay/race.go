package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Policy configures one race. CancelOnFirstSuccess is advisory: relay
// submissions are irrevocable once broadcast, so "cancel" only downgrades
// logging for providers that settle after a winner is known. It must never
// be relied upon for correctness.
type Policy struct {
	CancelOnFirstSuccess bool
	// GuardTimeout bounds the whole fan-out as defense in depth against
	// an adapter whose own timeout misbehaves
	GuardTimeout time.Duration
}

// DefaultPolicy waits for every provider to settle
func DefaultPolicy() Policy {
	return Policy{
		CancelOnFirstSuccess: false,
		GuardTimeout:         10 * time.Second,
	}
}

// RaceResult aggregates the outcome of one race: one ProviderResult per
// configured provider (order-independent), with FirstSuccess pointing at
// the earliest-settling success, if any. Constructed once, after all
// providers have settled or the guard timeout expired.
type RaceResult struct {
	Results      []*ProviderResult `json:"results"`
	FirstSuccess *ProviderResult   `json:"first_success,omitempty"`
	AllSucceeded bool              `json:"all_succeeded"`
	AnySucceeded bool              `json:"any_succeeded"`
}

// Race submits a signed bundle to N independent relay providers
// concurrently to maximize inclusion probability
type Race struct {
	providers []Provider
	policy    Policy
	logger    *logrus.Logger
}

func NewRace(providers []Provider, policy Policy, logger *logrus.Logger) (*Race, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("race requires at least one provider")
	}
	if policy.GuardTimeout <= 0 {
		policy.GuardTimeout = DefaultPolicy().GuardTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Race{providers: providers, policy: policy, logger: logger}, nil
}

// Run dispatches the bundle to all providers and blocks until every one
// has settled (or the guard timeout expires). Downstream accounting needs
// the full result set even when the caller only cares about FirstSuccess.
func (r *Race) Run(ctx context.Context, bundle *SignedBundle) *RaceResult {
	_, done := r.RunWithFirst(ctx, bundle)
	return <-done
}

// RunWithFirst exposes the race as two phases: the first channel resolves
// as soon as any provider succeeds (fast path), the done channel resolves
// once the full per-provider result set is known. Latency-critical callers
// await the first channel and let the rest settle in the background; the
// first channel is closed without a value when no provider succeeds.
func (r *Race) RunWithFirst(ctx context.Context, bundle *SignedBundle) (<-chan *ProviderResult, <-chan *RaceResult) {
	firstCh := make(chan *ProviderResult, 1)
	doneCh := make(chan *RaceResult, 1)

	results := make(chan *ProviderResult, len(r.providers))
	start := time.Now()

	for _, p := range r.providers {
		go func(p Provider) {
			res := p.SubmitBundle(ctx, bundle)
			if res == nil {
				res = failedResult(p.ID(), fmt.Errorf("provider returned no result"))
			}
			// Stamp latency with the race clock, not the provider's
			res.LatencyMs = time.Since(start).Milliseconds()
			results <- res
		}(p)
	}

	go func() {
		guard := time.NewTimer(r.policy.GuardTimeout)
		defer guard.Stop()

		race := &RaceResult{Results: make([]*ProviderResult, 0, len(r.providers))}
		settled := make(map[string]bool, len(r.providers))
		firstSent := false

	collect:
		for len(race.Results) < len(r.providers) {
			select {
			case res := <-results:
				race.Results = append(race.Results, res)
				settled[res.ProviderID] = true

				if res.Success {
					if race.FirstSuccess == nil {
						race.FirstSuccess = res
						firstCh <- res
						firstSent = true
						if r.policy.CancelOnFirstSuccess {
							// Advisory only; in-flight submissions
							// cannot be recalled
							r.logger.WithField("winner", res.ProviderID).
								Debug("first success observed, remaining providers settle in background")
						}
					}
				} else {
					level := logrus.WarnLevel
					if r.policy.CancelOnFirstSuccess && race.FirstSuccess != nil {
						level = logrus.DebugLevel
					}
					r.logger.WithFields(logrus.Fields{
						"provider":   res.ProviderID,
						"latency_ms": res.LatencyMs,
					}).Log(level, "provider failed: "+res.ErrorMessage)
				}

			case <-guard.C:
				elapsed := time.Since(start).Milliseconds()
				for _, p := range r.providers {
					if !settled[p.ID()] {
						r.logger.WithField("provider", p.ID()).
							Warn("provider did not settle before guard timeout")
						race.Results = append(race.Results, &ProviderResult{
							ProviderID:   p.ID(),
							ErrorMessage: fmt.Sprintf("guard timeout after %s", r.policy.GuardTimeout),
							LatencyMs:    elapsed,
						})
					}
				}
				break collect
			}
		}

		race.AnySucceeded = race.FirstSuccess != nil
		race.AllSucceeded = true
		for _, res := range race.Results {
			if !res.Success {
				race.AllSucceeded = false
				break
			}
		}

		if !firstSent {
			close(firstCh)
		}
		doneCh <- race
	}()

	return firstCh, doneCh
}
