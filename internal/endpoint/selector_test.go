package endpoint

import (
	"testing"
	"time"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSelector(t *testing.T, configs []EndpointConfig) *Selector {
	t.Helper()
	public := rpc.NewClient(rpc.ClientConfig{BaseURL: "https://public.example"})
	return NewSelector(public, configs, 5*time.Second, nil)
}

func TestSelect_ThresholdOrdering(t *testing.T) {
	s := testSelector(t, []EndpointConfig{
		{URL: "https://privateA.example", ThresholdUSD: 500},
		{URL: "https://privateB.example", ThresholdUSD: 2000},
	})

	cases := []struct {
		notional float64
		kind     Kind
		url      string
	}{
		{1999, KindPrivate, "https://privateA.example"},
		{2000, KindPrivate, "https://privateB.example"},
		{499, KindPublic, "https://public.example"},
		{500, KindPrivate, "https://privateA.example"},
		{1_000_000, KindPrivate, "https://privateB.example"},
	}

	for _, tc := range cases {
		choice := s.Select(tc.notional)
		assert.Equal(t, tc.kind, choice.Kind, "notional %v", tc.notional)
		assert.Equal(t, tc.url, choice.URL, "notional %v", tc.notional)
		require.NotNil(t, choice.Client)
	}
}

func TestSelect_EmptyURLSkipped(t *testing.T) {
	s := testSelector(t, []EndpointConfig{
		{URL: "", ThresholdUSD: 100},
	})

	choice := s.Select(5000)
	assert.Equal(t, KindPublic, choice.Kind)
}

func TestSelect_NoConfigsFallsBackToPublic(t *testing.T) {
	s := testSelector(t, nil)

	choice := s.Select(1_000_000)
	assert.Equal(t, KindPublic, choice.Kind)
	assert.Equal(t, "https://public.example", choice.URL)
}

func TestParseEndpoints(t *testing.T) {
	configs := ParseEndpoints("https://a.example@key1@500, https://b.example@@2000, bogus, x@y@notanumber")

	require.Len(t, configs, 2)
	assert.Equal(t, "https://a.example", configs[0].URL)
	assert.Equal(t, "key1", configs[0].APIKey)
	assert.Equal(t, float64(500), configs[0].ThresholdUSD)
	assert.Equal(t, "https://b.example", configs[1].URL)
	assert.Equal(t, "", configs[1].APIKey)
	assert.Equal(t, float64(2000), configs[1].ThresholdUSD)
}
