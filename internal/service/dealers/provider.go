package dealers

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"SilverPulse/internal/domain/models"
	apphttp "SilverPulse/pkg/http"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// A dealer premium outside (0, 50) USD/oz is a mis-parse, not a market
// condition.
const (
	premiumBandLow  = 0.0
	premiumBandHigh = 50.0
)

const (
	apmexURL     = "https://www.apmex.com/product/23/1-oz-silver-round-secondary-market"
	jmBullionURL = "https://www.jmbullion.com/silver/silver-rounds/1-oz-silver-rounds/"
)

var (
	apmexPremiumRe = regexp.MustCompile(`(?i)As low as \$(\d+\.?\d*) per round over spot`)
	dollarRe       = regexp.MustCompile(`\$(\d+\.?\d*)`)
	asLowAsRe      = regexp.MustCompile(`(?i)As Low As:\s*\$(\d+\.?\d*)`)
)

// Provider scrapes retail dealers for the physical premium over spot.
// Each dealer is scraped independently; valid results are averaged, and
// one dealer failing does not fail the read.
type Provider struct {
	http         *apphttp.Client
	apmexURL     string
	jmBullionURL string
}

// NewProvider creates a dealer premium provider.
func NewProvider(httpClient *apphttp.Client) *Provider {
	return &Provider{
		http:         httpClient,
		apmexURL:     apmexURL,
		jmBullionURL: jmBullionURL,
	}
}

// Fetch scrapes both dealers in parallel and averages whatever came
// back valid. It fails only when no dealer produced a usable premium.
func (p *Provider) Fetch(ctx context.Context) (models.PremiumReading, error) {
	var apmex, jm float64
	var apmexOK, jmOK bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apmex, apmexOK = p.fromAPMEX(gctx)
		return nil
	})
	g.Go(func() error {
		jm, jmOK = p.fromJMBullion(gctx)
		return nil
	})
	_ = g.Wait()

	var sum float64
	var n int
	if apmexOK {
		sum += apmex
		n++
	}
	if jmOK {
		sum += jm
		n++
	}
	if n == 0 {
		return models.PremiumReading{}, models.NewFetchErrorf("dealer_premium", "no dealer produced a usable premium")
	}

	return models.PremiumReading{
		PremiumPerOz: math.Round(sum/float64(n)*100) / 100,
		Timestamp:    time.Now(),
		DataSource:   models.SourceLive,
	}, nil
}

// fromAPMEX reads the premium APMEX states outright: "As low as $X.XX
// per round over spot".
func (p *Provider) fromAPMEX(ctx context.Context) (float64, bool) {
	body, err := p.http.GetBytes(ctx, &apphttp.RequestOptions{URL: p.apmexURL})
	if err != nil {
		return 0, false
	}

	m := apmexPremiumRe.FindStringSubmatch(string(body))
	if m == nil {
		return 0, false
	}
	premium, err := strconv.ParseFloat(m[1], 64)
	if err != nil || premium <= premiumBandLow || premium >= premiumBandHigh {
		return 0, false
	}
	return premium, true
}

// fromJMBullion derives the premium as lowest listed round price minus
// the spot price shown in the page header.
func (p *Provider) fromJMBullion(ctx context.Context) (float64, bool) {
	body, err := p.http.GetBytes(ctx, &apphttp.RequestOptions{URL: p.jmBullionURL})
	if err != nil {
		return 0, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return 0, false
	}

	var spot float64
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "Silver Ask") {
			return true
		}
		if m := dollarRe.FindStringSubmatch(s.Text()); m != nil {
			spot, _ = strconv.ParseFloat(m[1], 64)
			return false
		}
		return true
	})
	if spot == 0 {
		return 0, false
	}

	lowest := math.Inf(1)
	for _, m := range asLowAsRe.FindAllStringSubmatch(doc.Text(), -1) {
		price, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if price > spot && price < lowest {
			lowest = price
		}
	}
	if math.IsInf(lowest, 1) {
		return 0, false
	}

	premium := lowest - spot
	if premium <= premiumBandLow || premium >= premiumBandHigh {
		return 0, false
	}
	return premium, true
}

// Fallback builds the last-resort reading: premium zero with the error
// note carried by the ladder, mirroring a visibly-degraded state rather
// than a guessed markup.
func Fallback(now time.Time) models.PremiumReading {
	return models.PremiumReading{
		PremiumPerOz: 0,
		Timestamp:    now,
	}
}
