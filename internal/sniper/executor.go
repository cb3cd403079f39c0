package sniper

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/endpoint"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/fees"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/jupiter"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/models"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/relay"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/router"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/storage"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/wallet"
)

// QuoteComparator prices a request across the aggregator and direct venues
type QuoteComparator interface {
	Compare(ctx context.Context, req router.QuoteRequest) (*router.Comparison, error)
}

// SwapBuilder turns an aggregator quote into an unsigned transaction
type SwapBuilder interface {
	SwapTransaction(ctx context.Context, req jupiter.SwapRequest) (*jupiter.SwapResponse, error)
}

// CongestionSampler observes current network fee pressure
type CongestionSampler interface {
	Sample(ctx context.Context) *fees.CongestionSample
}

// EndpointSelector routes a trade to a submission endpoint by notional
type EndpointSelector interface {
	Select(notionalUSD float64) endpoint.Choice
}

// ProviderFactory assembles the relay provider set for one execution. The
// chosen endpoint contributes a sendTransaction provider alongside the
// static bundle relays.
type ProviderFactory func(choice endpoint.Choice) []relay.Provider

// ExecutorConfig carries the per-trade policy knobs
type ExecutorConfig struct {
	MaxSlippageBps   uint16
	TargetLatencyMs  int64
	RaceGuardTimeout time.Duration
}

// Executor runs the snipe pipeline: quote, slippage gate, fee estimate,
// build and sign, endpoint selection, provider race. Stages before the race
// are strictly ordered; the race itself is the only fan-out.
type Executor struct {
	cfg        ExecutorConfig
	signer     wallet.Signer
	comparator QuoteComparator
	builder    SwapBuilder
	sampler    CongestionSampler
	estimator  *fees.Estimator
	selector   EndpointSelector
	providers  ProviderFactory

	cache storage.ExecutionCache
	store storage.ExecutionStore

	logger *logrus.Logger
}

func NewExecutor(
	cfg ExecutorConfig,
	signer wallet.Signer,
	comparator QuoteComparator,
	builder SwapBuilder,
	sampler CongestionSampler,
	estimator *fees.Estimator,
	selector EndpointSelector,
	providers ProviderFactory,
	logger *logrus.Logger,
) *Executor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Executor{
		cfg:        cfg,
		signer:     signer,
		comparator: comparator,
		builder:    builder,
		sampler:    sampler,
		estimator:  estimator,
		selector:   selector,
		providers:  providers,
		logger:     logger,
	}
}

// WithTelemetry attaches best-effort execution telemetry sinks
func (e *Executor) WithTelemetry(cache storage.ExecutionCache, store storage.ExecutionStore) *Executor {
	e.cache = cache
	e.store = store
	return e
}

// Quote prices the trade without executing
func (e *Executor) Quote(ctx context.Context, params *SnipeParams) (*router.Comparison, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	return e.comparator.Compare(ctx, e.quoteRequest(params))
}

// Execute runs the full pipeline for one trade. The returned result is
// always populated; the error mirrors result.ErrorMessage for callers that
// branch on failure class.
//
// Policy rejections (slippage gate) happen before any transaction is built
// or signed, so a rejected call has no on-chain side effects and may be
// retried freely.
func (e *Executor) Execute(ctx context.Context, params *SnipeParams) (*ExecutionResult, error) {
	if err := validateParams(params); err != nil {
		return &ExecutionResult{ErrorMessage: err.Error()}, err
	}

	start := time.Now()
	result := &ExecutionResult{}

	// 1. Quote across venues
	stageStart := time.Now()
	comparison, err := e.comparator.Compare(ctx, e.quoteRequest(params))
	if err != nil {
		return e.finalize(ctx, result, params, start, err)
	}
	best := comparison.Best
	result.Quote = best
	result.Timings.QuoteMs = time.Since(stageStart).Milliseconds()

	// 2. Slippage gate: reject before anything is signed
	impactBps := best.PriceImpactPct * 100
	if impactBps > float64(e.slippageLimit(params)) {
		err := fmt.Errorf("%w: impact %.2f bps, limit %d bps",
			ErrPriceImpactTooHigh, impactBps, e.slippageLimit(params))
		return e.finalize(ctx, result, params, start, err)
	}

	// 3. Priority fee at p99; inclusion odds beat cost efficiency here
	stageStart = time.Now()
	sample := e.sampler.Sample(ctx)
	priorityFee := e.estimator.EstimatePercentile(sample, fees.UrgencyHigh)
	result.PriorityFee = priorityFee
	result.Congestion = sample.Level.String()
	result.Timings.FeeMs = time.Since(stageStart).Milliseconds()

	// 4. Build and sign. Direct venues are quoted for price comparison;
	// transaction construction always goes through the aggregator, so a
	// venue-best route still executes on the aggregator's plan.
	stageStart = time.Now()
	raw := best.Raw
	if raw == nil {
		raw = comparison.Aggregator.Raw
	}
	if raw == nil {
		err := fmt.Errorf("no aggregator route available to build transaction")
		return e.finalize(ctx, result, params, start, err)
	}

	swapResp, err := e.builder.SwapTransaction(ctx, jupiter.SwapRequest{
		UserPublicKey:                 e.signer.PublicKey().String(),
		QuoteResponse:                 raw,
		WrapAndUnwrapSol:              true,
		ComputeUnitPriceMicroLamports: priorityFee,
		DynamicComputeUnitLimit:       true,
	})
	if err != nil {
		return e.finalize(ctx, result, params, start, fmt.Errorf("build swap transaction: %w", err))
	}

	tx, err := wallet.DecodeTransaction(swapResp.SwapTransaction)
	if err != nil {
		return e.finalize(ctx, result, params, start, err)
	}
	if err := e.signer.Sign(ctx, tx); err != nil {
		return e.finalize(ctx, result, params, start, err)
	}

	bundle, err := relay.NewSignedBundle(e.signer.PublicKey(), tx)
	if err != nil {
		return e.finalize(ctx, result, params, start, err)
	}
	result.Timings.BuildMs = time.Since(stageStart).Milliseconds()

	// 5. Endpoint selection by notional
	choice := e.selector.Select(params.NotionalUSD)
	result.Endpoint = string(choice.Kind)

	// 6. Race all providers; return on the first success and let the
	// stragglers settle in the background for telemetry
	stageStart = time.Now()
	race, err := relay.NewRace(e.providers(choice), relay.Policy{
		CancelOnFirstSuccess: true,
		GuardTimeout:         e.cfg.RaceGuardTimeout,
	}, e.logger)
	if err != nil {
		return e.finalize(ctx, result, params, start, err)
	}

	firstCh, doneCh := race.RunWithFirst(ctx, bundle)
	first, ok := <-firstCh
	result.Timings.SubmitMs = time.Since(stageStart).Milliseconds()

	if !ok || first == nil {
		// No winner: the full result set is already settled
		result.Race = <-doneCh
		return e.finalize(ctx, result, params, start, ErrAllProvidersFailed)
	}

	result.Success = true
	result.Provider = first.ProviderID
	if len(first.Signatures) > 0 {
		result.Signature = first.Signatures[0]
	}

	go e.recordLateResults(first.ProviderID, doneCh)

	return e.finalize(ctx, result, params, start, nil)
}

// finalize stamps timing, enforces the latency target as log-only policy,
// and persists telemetry best-effort
func (e *Executor) finalize(ctx context.Context, result *ExecutionResult, params *SnipeParams, start time.Time, err error) (*ExecutionResult, error) {
	result.TotalElapsedMs = time.Since(start).Milliseconds()

	if err != nil {
		result.Success = false
		result.ErrorMessage = err.Error()
	}

	if e.cfg.TargetLatencyMs > 0 && result.TotalElapsedMs > e.cfg.TargetLatencyMs {
		result.TargetMissed = true
		// A missed target never fails the trade
		e.logger.WithFields(logrus.Fields{
			"elapsed_ms": result.TotalElapsedMs,
			"target_ms":  e.cfg.TargetLatencyMs,
			"pair":       pairOf(params),
		}).Warn("execution exceeded latency target")
	}

	e.persist(ctx, result, params)
	return result, err
}

func (e *Executor) persist(ctx context.Context, result *ExecutionResult, params *SnipeParams) {
	if e.cache == nil && e.store == nil {
		return
	}

	ev := &models.ExecutionEvent{
		Signature:   result.Signature,
		Timestamp:   time.Now().UTC(),
		Pair:        pairOf(params),
		InputMint:   params.InputMint,
		OutputMint:  params.OutputMint,
		AmountIn:    params.AmountIn,
		NotionalUSD: params.NotionalUSD,
		PriorityFee: result.PriorityFee,
		Provider:    result.Provider,
		Endpoint:    result.Endpoint,
		LatencyMs:   result.TotalElapsedMs,
		Success:     result.Success,
		Error:       result.ErrorMessage,
	}
	if result.Quote != nil {
		ev.AmountOut = result.Quote.OutAmount
	}

	if e.cache != nil {
		if err := e.cache.AddRecentExecution(ctx, ev); err != nil {
			e.logger.WithError(err).Debug("failed to cache execution")
		}
		_ = e.cache.PublishExecution(ctx, ev)
	}
	if e.store != nil {
		if err := e.store.InsertExecution(ctx, ev); err != nil {
			e.logger.WithError(err).Debug("failed to store execution")
		}
	}
}

// recordLateResults drains the race's done channel after a fast-path win so
// provider outcomes that settled behind the winner still reach the logs
func (e *Executor) recordLateResults(winner string, doneCh <-chan *relay.RaceResult) {
	race := <-doneCh
	if race == nil {
		return
	}
	for _, res := range race.Results {
		if res.ProviderID == winner {
			continue
		}
		e.logger.WithFields(logrus.Fields{
			"provider":   res.ProviderID,
			"success":    res.Success,
			"latency_ms": res.LatencyMs,
		}).Debug("provider settled after winner")
	}
}

func (e *Executor) quoteRequest(params *SnipeParams) router.QuoteRequest {
	return router.QuoteRequest{
		InputMint:     params.InputMint,
		OutputMint:    params.OutputMint,
		AmountIn:      params.AmountIn,
		SlippageBps:   e.slippageLimit(params),
		AllowMultiHop: params.AllowMultiHop,
	}
}

func (e *Executor) slippageLimit(params *SnipeParams) uint16 {
	if params.SlippageBps > 0 {
		return params.SlippageBps
	}
	return e.cfg.MaxSlippageBps
}

func validateParams(params *SnipeParams) error {
	if params == nil {
		return fmt.Errorf("params is nil")
	}
	if params.InputMint == "" || params.OutputMint == "" {
		return fmt.Errorf("input and output mints are required")
	}
	if params.InputMint == params.OutputMint {
		return fmt.Errorf("input and output mints must differ")
	}
	if params.AmountIn == 0 {
		return fmt.Errorf("amount must be > 0")
	}
	if params.NotionalUSD < 0 {
		return fmt.Errorf("notional must be >= 0")
	}
	return nil
}

func pairOf(params *SnipeParams) string {
	if params == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s", params.InputMint, params.OutputMint)
}
