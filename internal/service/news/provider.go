package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SilverPulse/internal/domain/models"
	domainservice "SilverPulse/internal/domain/service"
	apphttp "SilverPulse/pkg/http"
	applogger "SilverPulse/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Headlines shorter than this are navigation labels, not articles.
const minTitleLen = 10

// At most this many items go through classification per batch, to keep
// a single request from fanning out into dozens of model calls.
const maxClassified = 8

// Provider assembles the silver news feed. Sources are tried in
// priority order: the Kitco news page scrape, then the curated feed.
// Each item is then classified by the analyzer; a per-item
// classification failure keeps the item's defaults.
type Provider struct {
	http     *apphttp.Client
	pageURL  string
	maxItems int
	analyzer domainservice.NewsAnalyzer
	log      *applogger.Logger
}

// NewProvider creates a news provider. analyzer may be nil, in which
// case items keep their default classification.
func NewProvider(httpClient *apphttp.Client, pageURL string, maxItems int, analyzer domainservice.NewsAnalyzer, log *applogger.Logger) *Provider {
	return &Provider{
		http:     httpClient,
		pageURL:  pageURL,
		maxItems: maxItems,
		analyzer: analyzer,
		log:      log,
	}
}

// Fetch returns a freshly assembled and classified news batch.
func (p *Provider) Fetch(ctx context.Context) (models.NewsBatch, error) {
	items, err := p.scrapeKitco(ctx)
	if err != nil || len(items) == 0 {
		if p.log != nil {
			p.log.Warn("kitco scrape yielded nothing, using curated feed",
				applogger.Error(err))
		}
		items = CuratedItems()
	}
	if len(items) == 0 {
		return models.NewsBatch{}, models.NewFetchErrorf("silver_news", "no news items available")
	}

	if len(items) > p.maxItems {
		items = items[:p.maxItems]
	}
	p.classify(ctx, items)

	return models.NewsBatch{
		Items:      items,
		Timestamp:  time.Now(),
		DataSource: models.SourceLive,
	}, nil
}

func (p *Provider) scrapeKitco(ctx context.Context) ([]models.NewsItem, error) {
	body, err := p.http.GetBytes(ctx, &apphttp.RequestOptions{URL: p.pageURL})
	if err != nil {
		return nil, models.NewFetchError("silver_news", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, models.NewParseError("silver_news", err)
	}

	now := time.Now()
	var items []models.NewsItem
	seen := make(map[string]bool)

	doc.Find("article, .news-item, .article-item, h3 a, h2 a").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(items) >= 10 {
			return false
		}

		title := strings.TrimSpace(s.Find("h3, h2, .title").Text())
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}
		link, ok := s.Find("a").Attr("href")
		if !ok {
			link, _ = s.Attr("href")
		}
		summary := strings.TrimSpace(s.Find("p, .summary, .excerpt").First().Text())

		if title == "" || link == "" || len(title) <= minTitleLen || seen[link] {
			return true
		}
		seen[link] = true

		if !strings.HasPrefix(link, "http") {
			link = "https://www.kitco.com" + link
		}
		if summary == "" {
			summary = title
		}

		items = append(items, models.NewsItem{
			ID:          fmt.Sprintf("kitco-%d-%d", now.UnixMilli(), i),
			Title:       title,
			Summary:     summary,
			Source:      "Kitco News",
			SourceURL:   link,
			PublishedAt: now,
			Confidence:  models.ConfidenceMedium,
			Impact:      models.ImpactNeutral,
			DataSource:  models.SourceLive,
		})
		return true
	})

	return items, nil
}

// classify runs the analyzer over the batch in parallel. Items keep
// their defaults when their classification fails.
func (p *Provider) classify(ctx context.Context, items []models.NewsItem) {
	if p.analyzer == nil {
		return
	}

	n := len(items)
	if n > maxClassified {
		n = maxClassified
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			c, err := p.analyzer.Analyze(gctx, items[i])
			if err != nil {
				if p.log != nil {
					p.log.Warn("news classification failed",
						applogger.String("title", items[i].Title),
						applogger.Error(err),
					)
				}
				return nil
			}
			items[i].Confidence = c.Confidence
			items[i].Impact = c.Impact
			items[i].AnalysisNote = c.Analysis
			return nil
		})
	}
	_ = g.Wait()
}
