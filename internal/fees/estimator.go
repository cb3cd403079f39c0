package fees

import "math"

// Urgency maps a caller's inclusion urgency to a target fee percentile
type Urgency int

const (
	UrgencyLow    Urgency = iota // p50, cost-efficient
	UrgencyMedium                // p95
	UrgencyHigh                  // p99, sniper trades
)

func (u Urgency) percentile() float64 {
	switch u {
	case UrgencyMedium:
		return 0.95
	case UrgencyHigh:
		return 0.99
	default:
		return 0.50
	}
}

func (u Urgency) String() string {
	switch u {
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	default:
		return "low"
	}
}

// EstimatorConfig bounds and shapes fee estimates.
// All fees are micro-lamports per compute unit.
type EstimatorConfig struct {
	BaseFee     uint64
	MinFee      uint64
	MaxFee      uint64
	Multipliers map[CongestionLevel]float64
}

// DefaultEstimatorConfig returns the standard multiplier table
func DefaultEstimatorConfig(baseFee, minFee, maxFee uint64) EstimatorConfig {
	return EstimatorConfig{
		BaseFee: baseFee,
		MinFee:  minFee,
		MaxFee:  maxFee,
		Multipliers: map[CongestionLevel]float64{
			CongestionLow:      1.0,
			CongestionMedium:   2.0,
			CongestionHigh:     5.0,
			CongestionVeryHigh: 10.0,
		},
	}
}

// Estimator turns a congestion sample into a concrete priority fee.
// Routine trades use multiplier mode for cost efficiency; sniper trades
// use percentile mode at p99 for maximum inclusion odds.
type Estimator struct {
	cfg EstimatorConfig
}

func NewEstimator(cfg EstimatorConfig) *Estimator {
	if cfg.Multipliers == nil {
		cfg.Multipliers = DefaultEstimatorConfig(cfg.BaseFee, cfg.MinFee, cfg.MaxFee).Multipliers
	}
	return &Estimator{cfg: cfg}
}

// EstimateMultiplier computes fee = baseFee * multiplier[level], raised to
// p95 * 1.1 when the network is not quiet
func (e *Estimator) EstimateMultiplier(sample *CongestionSample) uint64 {
	mult, ok := e.cfg.Multipliers[sample.Level]
	if !ok {
		mult = 1.0
	}

	fee := float64(e.cfg.BaseFee) * mult
	if sample.Level != CongestionLow {
		fee = math.Max(fee, float64(sample.P95)*1.1)
	}

	return e.clamp(fee)
}

// EstimatePercentile picks the fee at the urgency's target percentile from
// the observed fee distribution, scaled by 1.1. Falls back to multiplier
// mode when the sample carries no observations.
func (e *Estimator) EstimatePercentile(sample *CongestionSample, urgency Urgency) uint64 {
	if len(sample.RecentFees) == 0 {
		return e.EstimateMultiplier(sample)
	}

	idx := int(float64(len(sample.RecentFees)) * urgency.percentile())
	if idx >= len(sample.RecentFees) {
		idx = len(sample.RecentFees) - 1
	}

	fee := float64(sample.RecentFees[idx]) * 1.1
	return e.clamp(fee)
}

func (e *Estimator) clamp(fee float64) uint64 {
	clamped := uint64(math.Floor(fee))
	if clamped < e.cfg.MinFee {
		clamped = e.cfg.MinFee
	}
	if clamped > e.cfg.MaxFee {
		clamped = e.cfg.MaxFee
	}
	return clamped
}
