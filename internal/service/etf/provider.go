package etf

import (
	"context"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/service/yahoo"

	"golang.org/x/sync/errgroup"
)

// Price band shared with the spot provider; both funds trade well
// inside it.
const (
	priceBandLow  = 10.0
	priceBandHigh = 200.0
)

// Fallback literals, last verified 2025-01.
const (
	FallbackPriceA     = 22.50
	FallbackPriceB     = 22.45
	FallbackChangeA    = 0.15
	FallbackChangeB    = 0.14
	FallbackDivergence = 0.22
)

// Provider fetches the SLV/SIVR pair. The two trusts hold the same
// metal, so their prices should track; the divergence is the signal.
type Provider struct {
	yahoo   *yahoo.Client
	symbolA string
	symbolB string
}

// NewProvider creates an ETF pair provider for two fund symbols.
func NewProvider(yc *yahoo.Client, symbolA, symbolB string) *Provider {
	return &Provider{yahoo: yc, symbolA: symbolA, symbolB: symbolB}
}

// Fetch quotes both funds in parallel and computes their divergence.
func (p *Provider) Fetch(ctx context.Context) (models.ETFPairReading, error) {
	var qa, qb yahoo.Quote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		qa, err = p.yahoo.Quote(gctx, p.symbolA)
		return err
	})
	g.Go(func() error {
		var err error
		qb, err = p.yahoo.Quote(gctx, p.symbolB)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ETFPairReading{}, err
	}

	for _, q := range []yahoo.Quote{qa, qb} {
		if q.Price < priceBandLow || q.Price > priceBandHigh {
			return models.ETFPairReading{}, models.NewPlausibilityError("etf_prices", q.Symbol, q.Price, priceBandLow, priceBandHigh)
		}
	}

	return models.ETFPairReading{
		PriceA:            qa.Price,
		PriceB:            qb.Price,
		ChangeA:           qa.Change,
		ChangeB:           qb.Change,
		DivergencePercent: models.Divergence(qa.Price, qb.Price),
		Timestamp:         time.Now(),
		DataSource:        models.SourceLive,
	}, nil
}

// Fallback builds the last-resort pair reading for the cache ladder.
func Fallback(now time.Time) models.ETFPairReading {
	return models.ETFPairReading{
		PriceA:            FallbackPriceA,
		PriceB:            FallbackPriceB,
		ChangeA:           FallbackChangeA,
		ChangeB:           FallbackChangeB,
		DivergencePercent: FallbackDivergence,
		Timestamp:         now,
	}
}
