package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// displacementBand: a venue quote may displace the aggregator only when its
// output is within this fraction of the aggregator's (value first), and its
// latency is strictly lower (speed second)
const displacementBand = 0.99

// Comparator obtains the aggregator's quote plus zero or more direct-venue
// quotes concurrently and picks the best route
type Comparator struct {
	aggregator VenueAdapter
	venues     []VenueAdapter
	logger     *logrus.Logger
}

func NewComparator(aggregator VenueAdapter, venues []VenueAdapter, logger *logrus.Logger) *Comparator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Comparator{aggregator: aggregator, venues: venues, logger: logger}
}

// Compare fans out to the aggregator and all direct venues. The aggregator
// quote is the authoritative baseline; its absence fails the comparison.
// Direct venues are best-effort: an error or ErrVenueUnavailable excludes
// the venue from the result set.
func (c *Comparator) Compare(ctx context.Context, req QuoteRequest) (*Comparison, error) {
	if req.InputMint == "" || req.OutputMint == "" {
		return nil, fmt.Errorf("input and output mints are required")
	}
	if req.AmountIn == 0 {
		return nil, fmt.Errorf("amount must be > 0")
	}

	var (
		wg       sync.WaitGroup
		aggQuote *RouteQuote
		aggErr   error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		aggQuote, aggErr = c.aggregator.Quote(ctx, req)
	}()

	venueQuotes := make([]*RouteQuote, len(c.venues))
	for i, venue := range c.venues {
		wg.Add(1)
		go func(i int, venue VenueAdapter) {
			defer wg.Done()

			quote, err := venue.Quote(ctx, req)
			if err != nil {
				if !errors.Is(err, ErrVenueUnavailable) {
					c.logger.WithError(err).WithField("venue", venue.Name()).Debug("venue quote failed")
				}
				return
			}
			venueQuotes[i] = quote
		}(i, venue)
	}

	wg.Wait()

	if aggErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoQuote, aggErr)
	}

	comparison := &Comparison{Aggregator: aggQuote}
	for _, q := range venueQuotes {
		if q != nil {
			comparison.Venues = append(comparison.Venues, q)
		}
	}

	comparison.Best = c.pickBest(aggQuote, comparison.Venues)
	return comparison, nil
}

// pickBest applies the two-factor displacement rule. Every candidate is
// compared against the aggregator baseline rather than a cumulative best,
// which keeps the outcome independent of venue registration order: among
// qualifying venues the lowest-latency one wins, ties broken by higher
// output.
func (c *Comparator) pickBest(aggregator *RouteQuote, venues []*RouteQuote) *RouteQuote {
	best := aggregator
	threshold := float64(aggregator.OutAmount) * displacementBand

	for _, q := range venues {
		if float64(q.OutAmount) < threshold {
			continue // materially worse in price, speed cannot save it
		}
		if q.LatencyMs >= aggregator.LatencyMs {
			continue
		}

		if best == aggregator ||
			q.LatencyMs < best.LatencyMs ||
			(q.LatencyMs == best.LatencyMs && q.OutAmount > best.OutAmount) {
			best = q
		}
	}

	if best != aggregator {
		c.logger.WithFields(logrus.Fields{
			"venue":       best.Provider,
			"out_amount":  best.OutAmount,
			"latency_ms":  best.LatencyMs,
			"agg_out":     aggregator.OutAmount,
			"agg_latency": aggregator.LatencyMs,
		}).Debug("direct venue displaced aggregator")
	}

	return best
}
