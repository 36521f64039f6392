package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SilverPulse/internal/domain/models"
	apphttp "SilverPulse/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kitcoPage = `<html><body>
	<h2><a href="/news/article/silver-breaks-resistance">Silver breaks key resistance level on safe-haven demand</a></h2>
	<h3><a href="https://www.kitco.com/news/article/comex-stocks-drain">COMEX registered stocks drain for a fifth straight week</a></h3>
	<h3><a href="/nav">More</a></h3>
</body></html>`

type stubAnalyzer struct {
	classification models.Classification
	err            error
	calls          int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ models.NewsItem) (models.Classification, error) {
	s.calls++
	if s.err != nil {
		return models.Classification{}, s.err
	}
	return s.classification, nil
}

func newTestProvider(t *testing.T, page string, status int, analyzer *stubAnalyzer) *Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)

	client := apphttp.NewClient(apphttp.WithTimeout(5 * time.Second))
	if analyzer == nil {
		return NewProvider(client, srv.URL, 8, nil, nil)
	}
	return NewProvider(client, srv.URL, 8, analyzer, nil)
}

func TestFetchScrapesKitco(t *testing.T) {
	p := newTestProvider(t, kitcoPage, http.StatusOK, nil)

	batch, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Items, 2, "short navigation labels must be skipped")

	assert.Equal(t, "Silver breaks key resistance level on safe-haven demand", batch.Items[0].Title)
	assert.Equal(t, "https://www.kitco.com/news/article/silver-breaks-resistance", batch.Items[0].SourceURL)
	assert.Equal(t, "Kitco News", batch.Items[0].Source)
	assert.Equal(t, models.SourceLive, batch.DataSource)
}

func TestFetchFallsBackToCurated(t *testing.T) {
	p := newTestProvider(t, "", http.StatusServiceUnavailable, nil)

	batch, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Items, 8)
	assert.Equal(t, "news-1", batch.Items[0].ID)
}

func TestFetchClassifiesItems(t *testing.T) {
	a := &stubAnalyzer{classification: models.Classification{
		Confidence: models.ConfidenceHigh,
		Impact:     models.ImpactBullish,
		Analysis:   "Inventory draw is a physical tightness signal.",
	}}
	p := newTestProvider(t, kitcoPage, http.StatusOK, a)

	batch, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, a.calls)
	for _, item := range batch.Items {
		assert.Equal(t, models.ConfidenceHigh, item.Confidence)
		assert.Equal(t, models.ImpactBullish, item.Impact)
		assert.NotEmpty(t, item.AnalysisNote)
	}
}

func TestClassificationFailureKeepsDefaults(t *testing.T) {
	a := &stubAnalyzer{err: errors.New("rate limited")}
	p := newTestProvider(t, kitcoPage, http.StatusOK, a)

	batch, err := p.Fetch(context.Background())
	require.NoError(t, err, "one failed classification must not fail the batch")
	for _, item := range batch.Items {
		assert.Equal(t, models.ConfidenceMedium, item.Confidence)
		assert.Equal(t, models.ImpactNeutral, item.Impact)
		assert.Empty(t, item.AnalysisNote)
	}
}

func TestBatchRetagging(t *testing.T) {
	batch := models.NewsBatch{
		Items:      CuratedItems()[:2],
		DataSource: models.SourceLive,
	}

	stale := batch.WithSource(models.SourceCached, "upstream down")
	assert.Equal(t, models.SourceCached, stale.DataSource)
	assert.Equal(t, "upstream down", stale.Error)
	for _, item := range stale.Items {
		assert.Equal(t, models.SourceCached, item.DataSource)
	}
	// The original batch is untouched.
	assert.Equal(t, models.SourceLive, batch.Items[0].DataSource)
}
