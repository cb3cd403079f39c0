package sniper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/endpoint"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/fees"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/jupiter"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/relay"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/router"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/wallet"
)

const (
	testInputMint  = "So11111111111111111111111111111111111111112"
	testOutputMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

type stubComparator struct {
	comparison *router.Comparison
	err        error
	calls      atomic.Int64
}

func (s *stubComparator) Compare(ctx context.Context, req router.QuoteRequest) (*router.Comparison, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.comparison, nil
}

type stubBuilder struct {
	response *jupiter.SwapResponse
	err      error
	calls    atomic.Int64
}

func (s *stubBuilder) SwapTransaction(ctx context.Context, req jupiter.SwapRequest) (*jupiter.SwapResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type stubSampler struct {
	sample *fees.CongestionSample
}

func (s *stubSampler) Sample(ctx context.Context) *fees.CongestionSample {
	return s.sample
}

type countingSigner struct {
	inner *wallet.Wallet
	calls atomic.Int64
}

func (c *countingSigner) PublicKey() solana.PublicKey { return c.inner.PublicKey() }

func (c *countingSigner) Sign(ctx context.Context, tx *solana.Transaction) error {
	c.calls.Add(1)
	return c.inner.Sign(ctx, tx)
}

type stubProvider struct {
	id      string
	success bool
	sigs    []string
	delay   time.Duration
	calls   atomic.Int64
}

func (p *stubProvider) ID() string { return p.id }

func (p *stubProvider) SubmitBundle(ctx context.Context, bundle *relay.SignedBundle) *relay.ProviderResult {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if !p.success {
		return &relay.ProviderResult{ProviderID: p.id, ErrorMessage: "relay rejected bundle"}
	}
	sigs := p.sigs
	if len(sigs) == 0 {
		sigs = bundle.Signatures()
	}
	return &relay.ProviderResult{ProviderID: p.id, Success: true, Signatures: sigs}
}

// highFeeSample carries 100 observations from 10 to 1000 so the p99 pick is
// the top observation
func highFeeSample() *fees.CongestionSample {
	recent := make([]uint64, 100)
	for i := range recent {
		recent[i] = uint64((i + 1) * 10)
	}
	return &fees.CongestionSample{
		Level:      fees.CongestionHigh,
		RecentFees: recent,
		AverageFee: 505,
		P95:        960,
		P99:        1000,
	}
}

// unsignedSwapTx builds a base64-encoded unsigned transfer the way the
// aggregator's swap endpoint returns transactions
func unsignedSwapTx(t *testing.T, payer solana.PublicKey) string {
	t.Helper()

	recipient := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1_000, payer, recipient).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	encoded, err := tx.ToBase64()
	require.NoError(t, err)
	return encoded
}

func quoteComparison(impactPct float64) *router.Comparison {
	agg := &router.RouteQuote{
		InputMint:      testInputMint,
		OutputMint:     testOutputMint,
		InAmount:       1_000_000_000,
		OutAmount:      158_000_000,
		PriceImpactPct: impactPct,
		Provider:       "jupiter",
		LatencyMs:      40,
		Raw: &jupiter.QuoteResponse{
			InputMint:  testInputMint,
			OutputMint: testOutputMint,
			InAmount:   "1000000000",
			OutAmount:  "158000000",
		},
	}
	return &router.Comparison{Aggregator: agg, Best: agg}
}

func testExecutor(
	t *testing.T,
	comparator QuoteComparator,
	builder SwapBuilder,
	signer wallet.Signer,
	providers ProviderFactory,
) *Executor {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	selector := endpoint.NewSelector(nil, []endpoint.EndpointConfig{
		{URL: "https://private.example.com", ThresholdUSD: 500},
	}, time.Second, logger)

	return NewExecutor(
		ExecutorConfig{
			MaxSlippageBps:   500,
			TargetLatencyMs:  0,
			RaceGuardTimeout: 5 * time.Second,
		},
		signer,
		comparator,
		builder,
		&stubSampler{sample: highFeeSample()},
		fees.NewEstimator(fees.DefaultEstimatorConfig(10_000, 1_000, 2_000_000)),
		selector,
		providers,
		logger,
	)
}

func newTestSigner(t *testing.T) *countingSigner {
	t.Helper()
	kp := solana.NewWallet()
	w, err := wallet.NewWallet(kp.PrivateKey.String())
	require.NoError(t, err)
	return &countingSigner{inner: w}
}

func TestExecute_EndToEnd(t *testing.T) {
	signer := newTestSigner(t)

	comparator := &stubComparator{comparison: quoteComparison(0.2)}
	builder := &stubBuilder{
		response: &jupiter.SwapResponse{
			SwapTransaction:      unsignedSwapTx(t, signer.PublicKey()),
			LastValidBlockHeight: 250_000_000,
		},
	}

	providerA := &stubProvider{id: "A"}
	providerB := &stubProvider{id: "B", success: true, delay: 20 * time.Millisecond}
	providerC := &stubProvider{id: "C", delay: 10 * time.Millisecond}

	exec := testExecutor(t, comparator, builder, signer, func(choice endpoint.Choice) []relay.Provider {
		assert.Equal(t, endpoint.KindPrivate, choice.Kind)
		return []relay.Provider{providerA, providerB, providerC}
	})

	result, err := exec.Execute(context.Background(), &SnipeParams{
		InputMint:   testInputMint,
		OutputMint:  testOutputMint,
		AmountIn:    1_000_000_000,
		NotionalUSD: 800,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, "B", result.Provider)
	assert.NotEmpty(t, result.Signature)
	assert.Equal(t, "private", result.Endpoint)

	// p99 over 10..1000 is 1000, scaled by 1.1
	assert.Equal(t, uint64(1100), result.PriorityFee)
	assert.Equal(t, "high", result.Congestion)

	assert.Equal(t, int64(1), signer.calls.Load())
	assert.Equal(t, int64(1), builder.calls.Load())
	assert.EqualValues(t, 1, providerA.calls.Load())
	assert.EqualValues(t, 1, providerB.calls.Load())
	assert.EqualValues(t, 1, providerC.calls.Load())
}

func TestExecute_SlippageGateRejectsBeforeSigning(t *testing.T) {
	signer := newTestSigner(t)

	// 6% impact against a 5% (500 bps) limit
	comparator := &stubComparator{comparison: quoteComparison(6.0)}
	builder := &stubBuilder{}

	exec := testExecutor(t, comparator, builder, signer, func(choice endpoint.Choice) []relay.Provider {
		t.Fatal("providers must not be assembled for a rejected trade")
		return nil
	})

	params := &SnipeParams{
		InputMint:   testInputMint,
		OutputMint:  testOutputMint,
		AmountIn:    1_000_000_000,
		NotionalUSD: 800,
	}

	// The gate is idempotent: repeated calls yield the same rejection and
	// never touch the builder or signer
	for i := 0; i < 2; i++ {
		result, err := exec.Execute(context.Background(), params)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPriceImpactTooHigh)
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Empty(t, result.Signature)
	}

	assert.Equal(t, int64(0), builder.calls.Load())
	assert.Equal(t, int64(0), signer.calls.Load())
}

func TestExecute_AllProvidersFailed(t *testing.T) {
	signer := newTestSigner(t)

	comparator := &stubComparator{comparison: quoteComparison(0.2)}
	builder := &stubBuilder{
		response: &jupiter.SwapResponse{
			SwapTransaction: unsignedSwapTx(t, signer.PublicKey()),
		},
	}

	exec := testExecutor(t, comparator, builder, signer, func(choice endpoint.Choice) []relay.Provider {
		return []relay.Provider{
			&stubProvider{id: "A"},
			&stubProvider{id: "B"},
		}
	})

	result, err := exec.Execute(context.Background(), &SnipeParams{
		InputMint:   testInputMint,
		OutputMint:  testOutputMint,
		AmountIn:    1_000_000_000,
		NotionalUSD: 800,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.False(t, result.Success)
	require.NotNil(t, result.Race)
	assert.Len(t, result.Race.Results, 2)
	assert.False(t, result.Race.AnySucceeded)
}

func TestExecute_QuoteFailureIsFatal(t *testing.T) {
	signer := newTestSigner(t)

	comparator := &stubComparator{err: fmt.Errorf("%w: aggregator down", router.ErrNoQuote)}
	builder := &stubBuilder{}

	exec := testExecutor(t, comparator, builder, signer, func(choice endpoint.Choice) []relay.Provider {
		return nil
	})

	result, err := exec.Execute(context.Background(), &SnipeParams{
		InputMint:   testInputMint,
		OutputMint:  testOutputMint,
		AmountIn:    1_000_000_000,
		NotionalUSD: 100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, router.ErrNoQuote)
	assert.False(t, result.Success)
	assert.Equal(t, int64(0), builder.calls.Load())
}

func TestExecute_ValidatesParams(t *testing.T) {
	signer := newTestSigner(t)
	exec := testExecutor(t, &stubComparator{}, &stubBuilder{}, signer, func(choice endpoint.Choice) []relay.Provider {
		return nil
	})

	cases := []struct {
		name   string
		params *SnipeParams
	}{
		{"nil params", nil},
		{"missing mints", &SnipeParams{AmountIn: 1}},
		{"same mints", &SnipeParams{InputMint: testInputMint, OutputMint: testInputMint, AmountIn: 1}},
		{"zero amount", &SnipeParams{InputMint: testInputMint, OutputMint: testOutputMint}},
		{"negative notional", &SnipeParams{InputMint: testInputMint, OutputMint: testOutputMint, AmountIn: 1, NotionalUSD: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := exec.Execute(context.Background(), tc.params)
			assert.Error(t, err)
		})
	}
}

func TestExecute_SlippageOverridePerTrade(t *testing.T) {
	signer := newTestSigner(t)

	// 0.2% impact fails a 10 bps per-trade limit even though the default
	// 500 bps limit would pass it
	comparator := &stubComparator{comparison: quoteComparison(0.2)}
	builder := &stubBuilder{}

	exec := testExecutor(t, comparator, builder, signer, func(choice endpoint.Choice) []relay.Provider {
		return nil
	})

	_, err := exec.Execute(context.Background(), &SnipeParams{
		InputMint:   testInputMint,
		OutputMint:  testOutputMint,
		AmountIn:    1_000_000_000,
		NotionalUSD: 800,
		SlippageBps: 10,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPriceImpactTooHigh)
	assert.Equal(t, int64(0), builder.calls.Load())
}
