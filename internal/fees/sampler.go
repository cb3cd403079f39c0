package fees

import (
	"context"
	"sort"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
	"github.com/sirupsen/logrus"
)

// CongestionLevel classifies network congestion on an ordinal scale
type CongestionLevel int

const (
	CongestionLow CongestionLevel = iota
	CongestionMedium
	CongestionHigh
	CongestionVeryHigh
)

func (l CongestionLevel) String() string {
	switch l {
	case CongestionLow:
		return "low"
	case CongestionMedium:
		return "medium"
	case CongestionHigh:
		return "high"
	case CongestionVeryHigh:
		return "very_high"
	}
	return "unknown"
}

// CongestionSample is a point-in-time view of recent priority fees.
// RecentFees is sorted ascending; P95 <= P99. Samples are derived fresh
// per estimation call and never persisted.
type CongestionSample struct {
	Level      CongestionLevel
	RecentFees []uint64
	AverageFee uint64
	P95        uint64
	P99        uint64
	Degraded   bool // true when the feed was empty or unreachable
}

// FeeFeed is the network fee observation source
type FeeFeed interface {
	GetRecentPrioritizationFees(ctx context.Context, accounts []string) ([]rpc.PrioritizationFee, error)
}

// Sampler polls recent prioritization fees and classifies congestion
type Sampler struct {
	feed    FeeFeed
	baseFee uint64
	logger  *logrus.Logger
}

func NewSampler(feed FeeFeed, baseFee uint64, logger *logrus.Logger) *Sampler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Sampler{feed: feed, baseFee: baseFee, logger: logger}
}

// Sample fetches recent fee observations and classifies congestion.
// A missing fee observation must never block a trade, so fetch failures
// and empty feeds degrade to a synthetic medium sample instead of erroring.
func (s *Sampler) Sample(ctx context.Context) *CongestionSample {
	observations, err := s.feed.GetRecentPrioritizationFees(ctx, nil)
	if err != nil {
		s.logger.WithError(err).Warn("priority fee feed unavailable, using degraded sample")
		return s.degradedSample()
	}

	fees := make([]uint64, 0, len(observations))
	for _, obs := range observations {
		if obs.PrioritizationFee > 0 {
			fees = append(fees, obs.PrioritizationFee)
		}
	}

	if len(fees) == 0 {
		s.logger.Warn("priority fee feed returned no usable observations, using degraded sample")
		return s.degradedSample()
	}

	sort.Slice(fees, func(i, j int) bool { return fees[i] < fees[j] })

	var sum uint64
	for _, f := range fees {
		sum += f
	}

	n := len(fees)
	p95 := fees[int(float64(n)*0.95)]
	p99 := fees[int(float64(n)*0.99)]

	return &CongestionSample{
		Level:      s.classify(p95),
		RecentFees: fees,
		AverageFee: sum / uint64(n),
		P95:        p95,
		P99:        p99,
	}
}

func (s *Sampler) classify(p95 uint64) CongestionLevel {
	switch {
	case p95 > 10*s.baseFee:
		return CongestionVeryHigh
	case p95 > 5*s.baseFee:
		return CongestionHigh
	case p95 > 2*s.baseFee:
		return CongestionMedium
	default:
		return CongestionLow
	}
}

func (s *Sampler) degradedSample() *CongestionSample {
	return &CongestionSample{
		Level:      CongestionMedium,
		RecentFees: nil,
		AverageFee: s.baseFee,
		P95:        2 * s.baseFee,
		P99:        5 * s.baseFee,
		Degraded:   true,
	}
}
