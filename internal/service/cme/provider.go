package cme

import (
	"context"
	"regexp"
	"time"

	"SilverPulse/internal/domain/models"
	apphttp "SilverPulse/pkg/http"
	"SilverPulse/pkg/util"
)

// A silver futures contract covers 5000 troy oz.
const ContractOunces = 5000.0

// Fallback literals: the margin requirements as of Jan 2025, after the
// Dec 2024 hikes took maintenance from ~$15k to $32k (+113%). Last
// verified 2025-01 against the CME margins page.
const (
	FallbackInitialMargin     = 35200.0
	FallbackMaintenanceMargin = 32000.0
	FallbackPerOunce          = FallbackInitialMargin / ContractOunces
	FallbackChangePercent     = 113.0
)

// Maintenance margin before the Dec 2024 hike cycle; the change percent
// is measured against this baseline.
const preHikeMaintenance = 15000.0

var (
	initialRe     = regexp.MustCompile(`(?i)initial[^$]*\$([\d,]+(?:\.\d+)?)`)
	maintenanceRe = regexp.MustCompile(`(?i)maintenance[^$]*\$([\d,]+(?:\.\d+)?)`)
)

// Provider scrapes the CME silver page for margin requirements. The
// page is JS-heavy and frequently serves no parseable figures, in which
// case the cache ladder falls back to the known requirements above.
type Provider struct {
	pageURL string
	http    *apphttp.Client
}

// NewProvider creates a CME margin provider.
func NewProvider(pageURL string, httpClient *apphttp.Client) *Provider {
	return &Provider{pageURL: pageURL, http: httpClient}
}

// Fetch attempts a live read of the margin requirements.
func (p *Provider) Fetch(ctx context.Context) (models.MarginReading, error) {
	body, err := p.http.GetBytes(ctx, &apphttp.RequestOptions{URL: p.pageURL})
	if err != nil {
		return models.MarginReading{}, models.NewFetchError("cme_margins", err)
	}
	return p.parse(body)
}

func (p *Provider) parse(body []byte) (models.MarginReading, error) {
	text := string(body)

	initial, ok := firstAmount(initialRe, text)
	if !ok {
		return models.MarginReading{}, models.NewParseErrorf("cme_margins", "no initial margin figure on page")
	}
	maintenance, ok := firstAmount(maintenanceRe, text)
	if !ok {
		return models.MarginReading{}, models.NewParseErrorf("cme_margins", "no maintenance margin figure on page")
	}

	// Contract margins are five figures; anything smaller is a per-oz
	// or unrelated dollar amount picked up by the regex.
	if initial < 1000 || maintenance < 1000 || maintenance > initial {
		return models.MarginReading{}, models.NewParseErrorf("cme_margins",
			"implausible margins: initial=%v maintenance=%v", initial, maintenance)
	}

	return models.MarginReading{
		InitialMargin:     initial,
		MaintenanceMargin: maintenance,
		PerOunce:          initial / ContractOunces,
		ChangePercent:     (maintenance - preHikeMaintenance) / preHikeMaintenance * 100,
		Timestamp:         time.Now(),
		DataSource:        models.SourceLive,
	}, nil
}

// Fallback builds the last-resort margin reading for the cache ladder.
func Fallback(now time.Time) models.MarginReading {
	return models.MarginReading{
		InitialMargin:     FallbackInitialMargin,
		MaintenanceMargin: FallbackMaintenanceMargin,
		PerOunce:          FallbackPerOunce,
		ChangePercent:     FallbackChangePercent,
		Timestamp:         now,
	}
}

func firstAmount(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return util.ParseNumber(m[1])
}
