package di

import (
	"context"
	"fmt"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/domain/repository"
	domainservice "SilverPulse/internal/domain/service"
	"SilverPulse/internal/handler/api"
	"SilverPulse/internal/middleware"
	internalrepo "SilverPulse/internal/repository"
	icache "SilverPulse/internal/service/cache"
	"SilverPulse/internal/service/cme"
	"SilverPulse/internal/service/comex"
	"SilverPulse/internal/service/dealers"
	"SilverPulse/internal/service/etf"
	"SilverPulse/internal/service/news"
	"SilverPulse/internal/service/ratelimit"
	"SilverPulse/internal/service/sge"
	"SilverPulse/internal/service/spot"
	"SilverPulse/internal/service/yahoo"
	"SilverPulse/internal/usecase"
	"SilverPulse/pkg/breaker"
	pkgcache "SilverPulse/pkg/cache"
	pkgch "SilverPulse/pkg/clickhouse"
	"SilverPulse/pkg/config"
	xhttp "SilverPulse/pkg/http"
	pkgkafka "SilverPulse/pkg/kafka"
	applogger "SilverPulse/pkg/logger"
	"SilverPulse/pkg/metrics"
	"SilverPulse/pkg/server"
)

const snapshotTTL = 24 * time.Hour

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSnapshotStore creates the Redis-backed snapshot store, or nil
// when snapshots are disabled.
func ProvideSnapshotStore(cfg *config.Config) (repository.SnapshotStore, error) {
	if !cfg.Snapshot.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Snapshot.Addr),
		pkgcache.WithRedisPassword(cfg.Snapshot.Password),
		pkgcache.WithRedisDB(cfg.Snapshot.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot redis: %w", err)
	}
	return icache.NewSnapshotStore(rc, snapshotTTL), nil
}

// ProvideClickHouseClient creates the history ClickHouse client, or nil
// when history persistence is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.History.Host),
		pkgch.WithPort(cfg.History.Port),
		pkgch.WithDatabase(cfg.History.Database),
		pkgch.WithCredentials(cfg.History.User, cfg.History.Password),
		pkgch.WithTimeouts(cfg.History.DialTimeout, cfg.History.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates the reading event producer, or nil when
// event publishing is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
		pkgkafka.WithAsync(cfg.Events.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReadingSink fans live readings out to ClickHouse and Kafka,
// whichever are configured. Returns nil when neither is.
func ProvideReadingSink(cfg *config.Config, ch *pkgch.Client, producer *pkgkafka.Producer, log *applogger.Logger) (repository.ReadingSink, error) {
	var sinks internalrepo.MultiSink

	if ch != nil {
		store := internalrepo.NewCHReadingStore(ch)
		store.SetLogger(log)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Init(ctx, ch); err != nil {
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		sinks = append(sinks, store)
	}

	if producer != nil {
		pub := internalrepo.NewKafkaReadingPublisher(producer, cfg.Events.Topic)
		pub.SetLogger(log)
		sinks = append(sinks, pub)
	}

	if len(sinks) == 0 {
		return nil, nil
	}
	return sinks, nil
}

// ProvideNewsAnalyzer creates the OpenAI headline classifier, or nil when
// classification is disabled; the news provider keeps defaults then.
func ProvideNewsAnalyzer(cfg *config.Config) domainservice.NewsAnalyzer {
	if !cfg.OpenAI.Enabled {
		return nil
	}
	return news.NewAnalyzer(news.AnalyzerConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	})
}

// readingHook builds the guard's on-live callback: the latest value lands
// in the Prometheus gauge and, when sinks are configured, in the event
// stream. Sink failures never fail the read path.
func readingHook[T any](metric string, value func(T) float64, m repository.Metrics, sink repository.ReadingSink, log *applogger.Logger) func(ctx context.Context, v T, at time.Time) {
	return func(ctx context.Context, v T, at time.Time) {
		val := value(v)
		if m != nil {
			m.RecordValue(metric, val)
		}
		if sink == nil {
			return
		}
		ev := repository.ReadingEvent{Metric: metric, Value: val, Source: string(models.SourceLive), Timestamp: at}
		if err := sink.Record(ctx, ev); err != nil && log != nil {
			log.Warn("reading sink error", applogger.String("metric", metric), applogger.Error(err))
		}
	}
}

func guardOpts[T icache.Taggable[T]](metric string, pc config.ProviderConfig, m repository.Metrics, snap repository.SnapshotStore, log *applogger.Logger, extra ...icache.GuardOption[T]) []icache.GuardOption[T] {
	opts := []icache.GuardOption[T]{
		icache.WithWindows[T](pc.FreshWindow, pc.StaleWindow),
		icache.WithBreaker[T](breaker.New(metric)),
		icache.WithMetrics[T](m),
		icache.WithLogger[T](log),
	}
	if snap != nil {
		opts = append(opts, icache.WithSnapshots[T](snap))
	}
	return append(opts, extra...)
}

// ProvideAggregator assembles every provider behind its guard and the
// facade over them. Guards of the same reading type cannot be told apart
// by the injector, so the whole graph is built here.
func ProvideAggregator(cfg *config.Config, m repository.Metrics, snap repository.SnapshotStore, sink repository.ReadingSink, analyzer domainservice.NewsAnalyzer, log *applogger.Logger) *usecase.MarketAggregator {
	limiter := ratelimit.New()
	client := func(timeout time.Duration) *xhttp.Client {
		return xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithUserAgent(xhttp.BrowserUserAgent),
			xhttp.WithLimiter(limiter),
		)
	}

	yahooClient := yahoo.NewClient(cfg.Yahoo.BaseURL, client(cfg.Providers.Spot.Timeout))

	spotProvider := spot.NewProvider(yahooClient, cfg.Yahoo.SpotSymbol, client(cfg.Providers.Spot.Timeout))
	spotGuard := icache.NewGuard("spot_price", spotProvider.Fetch,
		guardOpts("spot_price", cfg.Providers.Spot, m, snap, log,
			icache.WithFallback[models.PriceQuote](spot.Fallback),
			icache.WithOnLive(readingHook("spot_price", func(q models.PriceQuote) float64 { return q.Price }, m, sink, log)),
		)...)

	inventoryProvider := comex.NewProvider(cfg.Comex.ReportURL, client(cfg.Providers.Inventory.Timeout))
	// No fallback here: synthetic vault totals would poison the stress
	// index, so the ladder is allowed to exhaust.
	inventoryGuard := icache.NewGuard("comex_inventory", inventoryProvider.Fetch,
		guardOpts("comex_inventory", cfg.Providers.Inventory, m, snap, log,
			icache.WithOnLive(readingHook("comex_inventory", func(r models.InventoryReading) float64 { return r.RegisteredOz }, m, sink, log)),
		)...)

	etfProvider := etf.NewProvider(yahooClient, cfg.Yahoo.ETFSymbols[0], cfg.Yahoo.ETFSymbols[1])
	etfGuard := icache.NewGuard("etf_prices", etfProvider.Fetch,
		guardOpts("etf_prices", cfg.Providers.ETF, m, snap, log,
			icache.WithFallback[models.ETFPairReading](etf.Fallback),
			icache.WithOnLive(readingHook("etf_divergence", func(r models.ETFPairReading) float64 { return r.DivergencePercent }, m, sink, log)),
		)...)

	marginProvider := cme.NewProvider(cfg.CME.MarginsURL, client(cfg.Providers.Margins.Timeout))
	marginGuard := icache.NewGuard("cme_margins", marginProvider.Fetch,
		guardOpts("cme_margins", cfg.Providers.Margins, m, snap, log,
			icache.WithFallback[models.MarginReading](cme.Fallback),
			icache.WithOnLive(readingHook("cme_margins", func(r models.MarginReading) float64 { return r.MaintenanceMargin }, m, sink, log)),
		)...)

	spotFn := func(ctx context.Context) (float64, error) {
		q, err := spotGuard.Get(ctx)
		if err != nil {
			return 0, err
		}
		return q.Price, nil
	}
	shanghaiProvider := sge.NewProvider(spotFn, client(cfg.Providers.Premium.Timeout))
	shanghaiGuard := icache.NewGuard("shanghai_premium", shanghaiProvider.Fetch,
		guardOpts("shanghai_premium", cfg.Providers.Premium, m, snap, log,
			icache.WithFallback[models.PremiumReading](sge.Fallback),
			icache.WithOnLive(readingHook("shanghai_premium", func(r models.PremiumReading) float64 { return r.PremiumPerOz }, m, sink, log)),
		)...)

	dealerProvider := dealers.NewProvider(client(cfg.Providers.Dealers.Timeout))
	dealerGuard := icache.NewGuard("dealer_premium", dealerProvider.Fetch,
		guardOpts("dealer_premium", cfg.Providers.Dealers, m, snap, log,
			icache.WithFallback[models.PremiumReading](dealers.Fallback),
			icache.WithOnLive(readingHook("dealer_premium", func(r models.PremiumReading) float64 { return r.PremiumPerOz }, m, sink, log)),
		)...)

	newsProvider := news.NewProvider(client(cfg.Providers.News.Timeout), cfg.News.PageURL, cfg.News.MaxItems, analyzer, log)
	newsGuard := icache.NewGuard("silver_news", newsProvider.Fetch,
		guardOpts[models.NewsBatch]("silver_news", cfg.Providers.News, m, snap, log)...)

	return usecase.NewMarketAggregator(
		spotGuard, inventoryGuard, etfGuard, marginGuard,
		shanghaiGuard, dealerGuard, newsGuard,
		spotProvider, log,
	)
}

// ProvideRefresher builds the keep-warm loop: each metric refreshes on
// its fresh window so dashboard reads rarely pay upstream latency.
func ProvideRefresher(cfg *config.Config, m repository.Metrics, agg *usecase.MarketAggregator) *middleware.Refresher {
	r := middleware.NewRefresher(m, middleware.WithJitter(30*time.Second))

	r.AddTask("spot_price", cfg.Providers.Spot.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetSpotPrice(ctx)
		return err
	})
	r.AddTask("comex_inventory", cfg.Providers.Inventory.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetComexInventory(ctx)
		return err
	})
	r.AddTask("etf_prices", cfg.Providers.ETF.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetETFPrices(ctx)
		return err
	})
	r.AddTask("cme_margins", cfg.Providers.Margins.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetCMEMargins(ctx)
		return err
	})
	r.AddTask("shanghai_premium", cfg.Providers.Premium.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetShanghaiPremium(ctx)
		return err
	})
	r.AddTask("dealer_premium", cfg.Providers.Dealers.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetPhysicalPremium(ctx)
		return err
	})
	r.AddTask("silver_news", cfg.Providers.News.FreshWindow, func(ctx context.Context) error {
		_, err := agg.GetSilverNews(ctx, cfg.News.MaxItems)
		return err
	})
	return r
}

// ProvideHandler creates the HTTP handler over the aggregator.
func ProvideHandler(log *applogger.Logger, agg *usecase.MarketAggregator) *api.MarketHandler {
	return api.NewMarketHandler(log, agg)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, handler *api.MarketHandler, refresher *middleware.Refresher, ch *pkgch.Client, producer *pkgkafka.Producer, log *applogger.Logger) *server.App {
	return server.New(cfg, handler, refresher, ch, producer, log)
}
