package usecase

import (
	"context"
	"sort"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/service/cache"
	"SilverPulse/internal/services/analytics"
	applogger "SilverPulse/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// HistoryFetcher pulls a daily close series for an opaque range token
// like "1mo" or "1y".
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, rng string) ([]models.HistoricalPoint, error)
}

const (
	defaultHistoryRange = "1mo"
	historySeriesTTL    = 5 * time.Minute
)

// MarketAggregator is the read facade over every guarded provider. Each
// metric resolves independently, so a single response may mix live,
// cached and fallback readings.
type MarketAggregator struct {
	spot      *cache.Guard[models.PriceQuote]
	inventory *cache.Guard[models.InventoryReading]
	etf       *cache.Guard[models.ETFPairReading]
	margins   *cache.Guard[models.MarginReading]
	shanghai  *cache.Guard[models.PremiumReading]
	dealers   *cache.Guard[models.PremiumReading]
	news      *cache.Guard[models.NewsBatch]

	history HistoryFetcher
	series  *cache.SeriesCache

	log *applogger.Logger
}

func NewMarketAggregator(
	spot *cache.Guard[models.PriceQuote],
	inventory *cache.Guard[models.InventoryReading],
	etf *cache.Guard[models.ETFPairReading],
	margins *cache.Guard[models.MarginReading],
	shanghai *cache.Guard[models.PremiumReading],
	dealers *cache.Guard[models.PremiumReading],
	news *cache.Guard[models.NewsBatch],
	history HistoryFetcher,
	log *applogger.Logger,
) *MarketAggregator {
	return &MarketAggregator{
		spot:      spot,
		inventory: inventory,
		etf:       etf,
		margins:   margins,
		shanghai:  shanghai,
		dealers:   dealers,
		news:      news,
		history:   history,
		series:    cache.NewSeriesCache(),
		log:       log,
	}
}

// GetSpotPrice returns the current silver spot quote.
func (a *MarketAggregator) GetSpotPrice(ctx context.Context) (models.PriceQuote, error) {
	return a.spot.Get(ctx)
}

// GetHistoricalPrices returns the daily close series for rng, ascending
// by date. There is no synthetic fallback for a series: a fetch failure
// with a cold cache is a hard failure.
func (a *MarketAggregator) GetHistoricalPrices(ctx context.Context, rng string) ([]models.HistoricalPoint, error) {
	if rng == "" {
		rng = defaultHistoryRange
	}
	if points, ok := a.series.Get(rng); ok {
		return points, nil
	}

	points, err := a.history.FetchHistory(ctx, rng)
	if err != nil {
		return nil, err
	}
	a.series.Set(rng, points, historySeriesTTL)
	return points, nil
}

// GetComexInventory returns COMEX vault totals. This metric has no
// fallback tier, so a cold cache plus a dead source surfaces as an
// ExhaustionError.
func (a *MarketAggregator) GetComexInventory(ctx context.Context) (models.InventoryReading, error) {
	return a.inventory.Get(ctx)
}

// GetETFPrices returns the SLV/SIVR pair reading.
func (a *MarketAggregator) GetETFPrices(ctx context.Context) (models.ETFPairReading, error) {
	return a.etf.Get(ctx)
}

// GetCMEMargins returns current CME silver futures margins.
func (a *MarketAggregator) GetCMEMargins(ctx context.Context) (models.MarginReading, error) {
	return a.margins.Get(ctx)
}

// GetShanghaiPremium returns the Shanghai-over-COMEX premium per ounce.
func (a *MarketAggregator) GetShanghaiPremium(ctx context.Context) (models.PremiumReading, error) {
	return a.shanghai.Get(ctx)
}

// GetPhysicalPremium returns the retail dealer premium per ounce.
func (a *MarketAggregator) GetPhysicalPremium(ctx context.Context) (models.PremiumReading, error) {
	return a.dealers.Get(ctx)
}

// GetDeliveryStressIndex fetches inventory, premium and margins in
// parallel and scores them. Inventory exhaustion fails the whole index:
// a stress score computed from synthetic inventory would be worse than
// no score.
func (a *MarketAggregator) GetDeliveryStressIndex(ctx context.Context) (models.StressIndexResult, error) {
	var (
		inv  models.InventoryReading
		prem models.PremiumReading
		marg models.MarginReading
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inv, err = a.inventory.Get(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prem, err = a.shanghai.Get(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		marg, err = a.margins.Get(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.StressIndexResult{}, err
	}

	result := analytics.ComputeStressIndex(analytics.StressInputs{
		RegisteredInventory: inv.RegisteredOz,
		ShanghaiPremium:     prem.PremiumPerOz,
		MarginChangePercent: marg.ChangePercent,
	})

	if a.log != nil {
		a.log.Debug("stress index computed",
			applogger.Int("index", result.Index),
			applogger.String("level", string(result.Level)),
			applogger.String("inventorySource", string(inv.DataSource)),
		)
	}
	return result, nil
}

// GetSilverNews returns up to limit headlines, most recent first. An
// exhausted news ladder degrades to an empty list rather than an error;
// a missing feed should not break the page.
func (a *MarketAggregator) GetSilverNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	batch, err := a.news.Get(ctx)
	if err != nil {
		if models.IsExhausted(err) {
			if a.log != nil {
				a.log.Warn("news feed exhausted", applogger.Error(err))
			}
			return []models.NewsItem{}, nil
		}
		return nil, err
	}

	items := make([]models.NewsItem, len(batch.Items))
	copy(items, batch.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
