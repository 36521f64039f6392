package spot

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/service/yahoo"
	apphttp "SilverPulse/pkg/http"

	"github.com/PuerkitoBio/goquery"
)

// Plausibility band for silver USD/oz. Anything outside is a mis-parse,
// not a market move.
const (
	PriceBandLow  = 10.0
	PriceBandHigh = 200.0
)

// Fallback literals, last verified 2025-01 against the dashboard's
// reference data. Only served when every source and the stale cache
// have failed.
const (
	FallbackPrice         = 76.03
	FallbackChange        = 2.78
	FallbackChangePercent = 3.79
)

const kitcoChartURL = "https://www.kitco.com/charts/livesilver.html"

// Provider fetches the silver spot price. Sources are tried in priority
// order: the Yahoo futures quote first, the Kitco live chart page as a
// scrape fallback.
type Provider struct {
	yahoo    *yahoo.Client
	symbol   string
	http     *apphttp.Client
	kitcoURL string
}

// NewProvider creates a spot price provider.
func NewProvider(yc *yahoo.Client, symbol string, httpClient *apphttp.Client) *Provider {
	return &Provider{
		yahoo:    yc,
		symbol:   symbol,
		http:     httpClient,
		kitcoURL: kitcoChartURL,
	}
}

// Fetch returns the current spot quote from the first source that
// produces a plausible price.
func (p *Provider) Fetch(ctx context.Context) (models.PriceQuote, error) {
	q, yerr := p.fromYahoo(ctx)
	if yerr == nil {
		return q, nil
	}

	q, kerr := p.fromKitco(ctx)
	if kerr == nil {
		return q, nil
	}

	return models.PriceQuote{}, models.NewFetchError("spot_price",
		fmt.Errorf("yahoo: %v; kitco: %v", yerr, kerr))
}

// FetchHistory returns the daily close series for an opaque range token
// like "1mo" or "1y", ascending by date.
func (p *Provider) FetchHistory(ctx context.Context, rng string) ([]models.HistoricalPoint, error) {
	return p.yahoo.History(ctx, p.symbol, rng)
}

func (p *Provider) fromYahoo(ctx context.Context) (models.PriceQuote, error) {
	q, err := p.yahoo.Quote(ctx, p.symbol)
	if err != nil {
		return models.PriceQuote{}, err
	}
	if q.Price < PriceBandLow || q.Price > PriceBandHigh {
		return models.PriceQuote{}, models.NewPlausibilityError("spot_price", "price", q.Price, PriceBandLow, PriceBandHigh)
	}
	return models.PriceQuote{
		Price:         round2(q.Price),
		Change:        round2(q.Change),
		ChangePercent: round2(q.ChangePercent),
		Timestamp:     time.Now(),
		DataSource:    models.SourceLive,
	}, nil
}

var kitcoChangeRe = regexp.MustCompile(`([+-]?[\d.]+)\s*\(([+-]?[\d.]+)%\)`)

func (p *Provider) fromKitco(ctx context.Context) (models.PriceQuote, error) {
	body, err := p.http.GetBytes(ctx, &apphttp.RequestOptions{URL: p.kitcoURL})
	if err != nil {
		return models.PriceQuote{}, models.NewFetchError("spot_price", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return models.PriceQuote{}, models.NewParseError("spot_price", err)
	}

	bidText := doc.Find("h3").First().Text()
	bid, err := strconv.ParseFloat(stripNonNumeric(bidText), 64)
	if err != nil || bid < PriceBandLow || bid > PriceBandHigh {
		return models.PriceQuote{}, models.NewPlausibilityError("spot_price", "bid", bid, PriceBandLow, PriceBandHigh)
	}

	var change, changePercent float64
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.ContainsAny(text, "+-") {
			return
		}
		if m := kitcoChangeRe.FindStringSubmatch(text); m != nil {
			change, _ = strconv.ParseFloat(m[1], 64)
			changePercent, _ = strconv.ParseFloat(m[2], 64)
		}
	})

	return models.PriceQuote{
		Price:         round2(bid),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		Timestamp:     time.Now(),
		DataSource:    models.SourceLive,
	}, nil
}

// Fallback builds the last-resort quote for the cache ladder.
func Fallback(now time.Time) models.PriceQuote {
	return models.PriceQuote{
		Price:         FallbackPrice,
		Change:        FallbackChange,
		ChangePercent: FallbackChangePercent,
		Timestamp:     now,
	}
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
