package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/service/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistory struct {
	points []models.HistoricalPoint
	err    error
	calls  int
}

func (s *stubHistory) FetchHistory(ctx context.Context, rng string) ([]models.HistoricalPoint, error) {
	s.calls++
	return s.points, s.err
}

func liveGuard[T cache.Taggable[T]](metric string, v T) *cache.Guard[T] {
	return cache.NewGuard(metric, func(ctx context.Context) (T, error) {
		return v, nil
	})
}

func deadGuard[T cache.Taggable[T]](metric string) *cache.Guard[T] {
	return cache.NewGuard(metric, func(ctx context.Context) (T, error) {
		var zero T
		return zero, errors.New("source down")
	})
}

func newTestAggregator() *MarketAggregator {
	return NewMarketAggregator(
		liveGuard("spot_price", models.PriceQuote{Price: 76.03}),
		liveGuard("comex_inventory", models.InventoryReading{RegisteredOz: 30.2, EligibleOz: 120, TotalOz: 150.2}),
		liveGuard("etf_prices", models.ETFPairReading{PriceA: 22.50, PriceB: 22.45}),
		liveGuard("cme_margins", models.MarginReading{InitialMargin: 35200, ChangePercent: 62.5}),
		liveGuard("shanghai_premium", models.PremiumReading{PremiumPerOz: 11.56}),
		liveGuard("dealer_premium", models.PremiumReading{PremiumPerOz: 6.00}),
		liveGuard("silver_news", models.NewsBatch{}),
		&stubHistory{},
		nil,
	)
}

func TestGetSpotPrice(t *testing.T) {
	a := newTestAggregator()

	q, err := a.GetSpotPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 76.03, q.Price)
	assert.Equal(t, models.SourceLive, q.DataSource)
}

func TestGetHistoricalPricesCachesSeries(t *testing.T) {
	hist := &stubHistory{points: []models.HistoricalPoint{
		{Date: "2026-08-01", Price: 74.10},
		{Date: "2026-08-02", Price: 75.32},
	}}
	a := newTestAggregator()
	a.history = hist

	p1, err := a.GetHistoricalPrices(context.Background(), "1mo")
	require.NoError(t, err)
	p2, err := a.GetHistoricalPrices(context.Background(), "1mo")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, hist.calls, "second call must hit the series cache")
	assert.True(t, p1[0].Date < p1[1].Date, "series must be ascending")
}

func TestGetHistoricalPricesHardFailure(t *testing.T) {
	a := newTestAggregator()
	a.history = &stubHistory{err: errors.New("upstream down")}

	_, err := a.GetHistoricalPrices(context.Background(), "3mo")
	require.Error(t, err)
}

func TestGetComexInventoryExhaustionPropagates(t *testing.T) {
	a := newTestAggregator()
	a.inventory = deadGuard[models.InventoryReading]("comex_inventory")

	_, err := a.GetComexInventory(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsExhausted(err))
}

func TestGetDeliveryStressIndex(t *testing.T) {
	a := newTestAggregator()

	got, err := a.GetDeliveryStressIndex(context.Background())
	require.NoError(t, err)

	// 30.2M oz registered, $11.56 premium, 62.5% margin hike.
	assert.Equal(t, 95, got.Index)
	assert.Equal(t, models.StressCritical, got.Level)
	assert.Equal(t, models.FactorScores{Inventory: 30, Coverage: 35, Premium: 20, Margin: 10}, got.Factors)
}

func TestStressIndexFailsOnInventoryExhaustion(t *testing.T) {
	a := newTestAggregator()
	a.inventory = deadGuard[models.InventoryReading]("comex_inventory")

	_, err := a.GetDeliveryStressIndex(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsExhausted(err))
}

func TestGetSilverNewsOrderingAndLimit(t *testing.T) {
	now := time.Now()
	batch := models.NewsBatch{Items: []models.NewsItem{
		{ID: "old", PublishedAt: now.Add(-2 * time.Hour)},
		{ID: "newest", PublishedAt: now},
		{ID: "mid", PublishedAt: now.Add(-time.Hour)},
	}}
	a := newTestAggregator()
	a.news = liveGuard("silver_news", batch)

	items, err := a.GetSilverNews(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "newest", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
}

func TestGetSilverNewsExhaustionReturnsEmpty(t *testing.T) {
	a := newTestAggregator()
	a.news = deadGuard[models.NewsBatch]("silver_news")

	items, err := a.GetSilverNews(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
