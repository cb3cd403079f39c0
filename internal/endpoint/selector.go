package endpoint

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/rpc"
	"github.com/sirupsen/logrus"
)

// Kind distinguishes public from MEV-protected submission endpoints
type Kind string

const (
	KindPublic  Kind = "public"
	KindPrivate Kind = "private"
)

// EndpointConfig is one entry in the threshold table. Trades with a
// notional at or above ThresholdUSD are routed to URL. The selector
// matches the highest qualifying threshold first.
type EndpointConfig struct {
	URL          string
	APIKey       string
	ThresholdUSD float64
}

// Choice is the submission endpoint selected for a single trade. Choices
// are not cached across trades because trade notional varies.
type Choice struct {
	Kind      Kind
	URL       string
	Client    *rpc.Client
	Threshold float64
}

// Selector routes trades to public or private endpoints by notional value.
// Small trades stay on cheaper public infrastructure; only large,
// MEV-attractive trades pay for privacy-preserving routing.
type Selector struct {
	public  *rpc.Client
	entries []privateEntry
	logger  *logrus.Logger
}

type privateEntry struct {
	cfg    EndpointConfig
	client *rpc.Client
}

// NewSelector builds one connection handle per configured private endpoint.
// Clients are constructed once here and reused for the process lifetime.
func NewSelector(public *rpc.Client, configs []EndpointConfig, httpTimeout time.Duration, logger *logrus.Logger) *Selector {
	if logger == nil {
		logger = logrus.New()
	}

	ordered := make([]EndpointConfig, len(configs))
	copy(ordered, configs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ThresholdUSD > ordered[j].ThresholdUSD
	})

	entries := make([]privateEntry, 0, len(ordered))
	for _, cfg := range ordered {
		if strings.TrimSpace(cfg.URL) == "" {
			continue
		}
		entries = append(entries, privateEntry{
			cfg: cfg,
			client: rpc.NewClient(rpc.ClientConfig{
				BaseURL: cfg.URL,
				APIKey:  cfg.APIKey,
				Timeout: httpTimeout,
				Logger:  logger,
			}),
		})
	}

	return &Selector{public: public, entries: entries, logger: logger}
}

// Select returns the first private endpoint whose threshold the notional
// meets; otherwise the public endpoint. The public fallback is policy,
// not an error.
func (s *Selector) Select(notionalUSD float64) Choice {
	for _, e := range s.entries {
		if e.cfg.ThresholdUSD <= notionalUSD {
			s.logger.WithFields(logrus.Fields{
				"notional_usd": notionalUSD,
				"threshold":    e.cfg.ThresholdUSD,
				"endpoint":     e.cfg.URL,
			}).Debug("selected private endpoint")
			return Choice{
				Kind:      KindPrivate,
				URL:       e.cfg.URL,
				Client:    e.client,
				Threshold: e.cfg.ThresholdUSD,
			}
		}
	}

	return Choice{Kind: KindPublic, URL: s.public.URL(), Client: s.public}
}

// ParseEndpoints parses the PRIVATE_ENDPOINTS env format:
// "url@apiKey@thresholdUSD" entries separated by commas. The apiKey part
// may be empty. Malformed entries are skipped.
func ParseEndpoints(raw string) []EndpointConfig {
	var out []EndpointConfig
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, "@")
		if len(fields) != 3 {
			continue
		}
		threshold, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			continue
		}
		out = append(out, EndpointConfig{
			URL:          strings.TrimSpace(fields[0]),
			APIKey:       strings.TrimSpace(fields[1]),
			ThresholdUSD: threshold,
		})
	}
	return out
}
