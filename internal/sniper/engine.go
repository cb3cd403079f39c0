package sniper

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/cache"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/config"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/constants"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/endpoint"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/fees"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/flags"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/jupiter"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/orca"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/relay"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/router"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/storage"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/wallet"
)

// Engine wires the full trade pipeline from configuration: fee sampling,
// route comparison, endpoint selection, relay racing, and telemetry. It is
// the single entry point for both the CLI and the HTTP API.
type Engine struct {
	cfg      *config.Config
	wallet   wallet.Signer
	executor *Executor

	sampler   *fees.Sampler
	estimator *fees.Estimator
	selector  *endpoint.Selector
	flagStore *flags.Store

	redis      *cache.RedisCache
	clickhouse *cache.ClickHouseStore

	logger *logrus.Logger
}

// NewEngine creates an engine with all dependencies. Redis and ClickHouse
// are optional; an empty address disables the corresponding sink. The Orca
// direct venue is active only when a pool config path is set.
func NewEngine(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Engine, error) {
	if logger == nil {
		logger = logrus.New()
	}

	// 1. Wallet
	w, err := wallet.NewWalletFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	// 2. Public RPC client, shared by the fee sampler and the public
	// submission path
	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		RateRPS:      cfg.RPCRateRPS,
		Logger:       logger,
	})

	// 3. Fee sampler and estimator
	sampler := fees.NewSampler(rpcClient, cfg.BaseFee, logger)
	estimator := fees.NewEstimator(fees.DefaultEstimatorConfig(cfg.BaseFee, cfg.MinFee, cfg.MaxFee))

	// 4. Aggregator and direct venues
	jupClient := jupiter.NewClient(cfg.JupiterBaseURL, cfg.JupiterAPIKey)

	var venues []router.VenueAdapter
	if cfg.OrcaPoolConfigPath != "" {
		registry, err := orca.NewPoolRegistry(cfg.OrcaPoolConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load pool registry: %w", err)
		}
		venues = append(venues, router.NewOrcaAdapter(orca.NewClient(rpcClient, registry)))
	}

	comparator := router.NewComparator(router.NewJupiterAdapter(jupClient), venues, logger)

	// 5. Endpoint selector from the private endpoint table
	selector := endpoint.NewSelector(
		rpcClient,
		endpoint.ParseEndpoints(cfg.PrivateEndpoints),
		cfg.HTTPTimeout,
		logger,
	)

	// 6. Static bundle relays; the per-trade endpoint contributes a
	// sendTransaction provider at race time
	jitoProviders := make([]relay.Provider, 0, len(cfg.JitoBlockEngineURLs))
	for _, engineURL := range cfg.JitoBlockEngineURLs {
		jitoProviders = append(jitoProviders, relay.NewJitoProvider(engineURL, 0, logger))
	}

	providerFactory := func(choice endpoint.Choice) []relay.Provider {
		providers := make([]relay.Provider, 0, len(jitoProviders)+1)
		providers = append(providers, jitoProviders...)
		providers = append(providers, relay.NewRPCProvider(
			constants.ProviderRPC+":"+string(choice.Kind), choice.Client, 0, logger))
		return providers
	}

	// 7. Telemetry sinks
	var redisCache *cache.RedisCache
	var flagStore *flags.Store
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		redisCache = rc

		fs, err := flags.NewStore(rc.Client())
		if err != nil {
			return nil, err
		}
		flagStore = fs
	}

	var clickhouseStore *cache.ClickHouseStore
	if cfg.ClickHouseAddr != "" {
		ch, err := cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		clickhouseStore = ch
	}

	executor := NewExecutor(
		ExecutorConfig{
			MaxSlippageBps:   cfg.MaxSlippageBps,
			TargetLatencyMs:  cfg.TargetLatencyMs,
			RaceGuardTimeout: cfg.RaceGuardTimeout,
		},
		w,
		comparator,
		jupClient,
		sampler,
		estimator,
		selector,
		providerFactory,
		logger,
	)

	// Typed-nil pointers must not reach the interface fields
	var execCache storage.ExecutionCache
	if redisCache != nil {
		execCache = redisCache
	}
	var execStore storage.ExecutionStore
	if clickhouseStore != nil {
		execStore = clickhouseStore
	}
	executor = executor.WithTelemetry(execCache, execStore)

	return &Engine{
		cfg:        cfg,
		wallet:     w,
		executor:   executor,
		sampler:    sampler,
		estimator:  estimator,
		selector:   selector,
		flagStore:  flagStore,
		redis:      redisCache,
		clickhouse: clickhouseStore,
		logger:     logger,
	}, nil
}

// Quote prices a trade across the aggregator and direct venues without
// executing anything
func (e *Engine) Quote(ctx context.Context, params *SnipeParams) (*router.Comparison, error) {
	return e.executor.Quote(ctx, params)
}

// EstimateFee samples congestion and returns the fee for the given urgency
func (e *Engine) EstimateFee(ctx context.Context, urgency fees.Urgency) (uint64, *fees.CongestionSample) {
	sample := e.sampler.Sample(ctx)
	return e.estimator.EstimatePercentile(sample, urgency), sample
}

// Execute runs one trade end-to-end. The runtime kill switch is consulted
// first; when tripped, nothing is quoted, signed, or broadcast.
func (e *Engine) Execute(ctx context.Context, params *SnipeParams) (*ExecutionResult, error) {
	if !e.Enabled(ctx) {
		return &ExecutionResult{ErrorMessage: ErrSniperDisabled.Error()}, ErrSniperDisabled
	}
	return e.executor.Execute(ctx, params)
}

// Enabled reports the kill switch state. The flag store overrides the
// configured default; without a flag store the config value stands.
func (e *Engine) Enabled(ctx context.Context) bool {
	if e.flagStore == nil {
		return e.cfg.SniperEnabled
	}
	return e.flagStore.IsEnabled(ctx, flags.KeySniperEnabled, e.cfg.SniperEnabled)
}

// Flags exposes the feature flag store; nil when Redis is not configured
func (e *Engine) Flags() *flags.Store {
	return e.flagStore
}

// Cache exposes the execution cache; nil when Redis is not configured
func (e *Engine) Cache() *cache.RedisCache {
	return e.redis
}

// WalletAddress returns the fee payer address
func (e *Engine) WalletAddress() string {
	return e.wallet.PublicKey().String()
}

// Close releases storage connections
func (e *Engine) Close() error {
	var errs []error

	if e.redis != nil {
		if err := e.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if e.clickhouse != nil {
		if err := e.clickhouse.Close(); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
