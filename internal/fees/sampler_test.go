package fees

import (
	"context"
	"errors"
	"testing"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	fees []rpc.PrioritizationFee
	err  error
}

func (f *stubFeed) GetRecentPrioritizationFees(ctx context.Context, accounts []string) ([]rpc.PrioritizationFee, error) {
	return f.fees, f.err
}

func TestSample_SortsAndComputesPercentiles(t *testing.T) {
	feed := &stubFeed{fees: []rpc.PrioritizationFee{
		{Slot: 1, PrioritizationFee: 300},
		{Slot: 2, PrioritizationFee: 100},
		{Slot: 3, PrioritizationFee: 0}, // discarded
		{Slot: 4, PrioritizationFee: 200},
	}}

	s := NewSampler(feed, 10, nil)
	sample := s.Sample(context.Background())

	require.False(t, sample.Degraded)
	assert.Equal(t, []uint64{100, 200, 300}, sample.RecentFees)
	assert.Equal(t, uint64(200), sample.AverageFee)
	assert.LessOrEqual(t, sample.P95, sample.P99)
}

func TestSample_Classification(t *testing.T) {
	cases := []struct {
		name    string
		baseFee uint64
		fee     uint64
		level   CongestionLevel
	}{
		{"low when p95 <= 2x base", 100, 150, CongestionLow},
		{"medium when p95 > 2x base", 100, 250, CongestionMedium},
		{"high when p95 > 5x base", 100, 600, CongestionHigh},
		{"very high when p95 > 10x base", 100, 1500, CongestionVeryHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			feed := &stubFeed{fees: []rpc.PrioritizationFee{{Slot: 1, PrioritizationFee: tc.fee}}}
			s := NewSampler(feed, tc.baseFee, nil)
			assert.Equal(t, tc.level, s.Sample(context.Background()).Level)
		})
	}
}

func TestSample_DegradedOnFeedError(t *testing.T) {
	s := NewSampler(&stubFeed{err: errors.New("rpc down")}, 100, nil)
	sample := s.Sample(context.Background())

	require.True(t, sample.Degraded)
	assert.Equal(t, CongestionMedium, sample.Level)
	assert.Equal(t, uint64(100), sample.AverageFee)
	assert.Equal(t, uint64(200), sample.P95)
	assert.Equal(t, uint64(500), sample.P99)
}

func TestSample_DegradedOnEmptyFeed(t *testing.T) {
	s := NewSampler(&stubFeed{}, 100, nil)
	sample := s.Sample(context.Background())

	require.True(t, sample.Degraded)
	assert.Equal(t, CongestionMedium, sample.Level)
}
