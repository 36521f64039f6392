package spot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/service/yahoo"
	apphttp "SilverPulse/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartJSON(price, prevClose float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"regularMarketPrice":%f,"chartPreviousClose":%f},"timestamp":[],"indicators":{"quote":[{"close":[]}]}}]}}`, price, prevClose)
}

const kitcoHTML = `<html><body>
<h3>$38.21</h3>
<h3>+0.53 (+1.41%)</h3>
</body></html>`

func newTestProvider(yahooURL string) *Provider {
	client := apphttp.NewClient(apphttp.WithTimeout(2 * time.Second))
	yc := yahoo.NewClient(yahooURL, client)
	return NewProvider(yc, "SI=F", client)
}

func TestFetchFromYahoo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON(38.03, 36.62))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 38.03, got.Price)
	assert.Equal(t, 1.41, got.Change)
	assert.InDelta(t, 3.85, got.ChangePercent, 0.001)
	assert.Equal(t, models.SourceLive, got.DataSource)
}

func TestFetchFallsBackToKitco(t *testing.T) {
	yahooSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Outside the plausibility band, so the quote is rejected.
		fmt.Fprint(w, chartJSON(940, 910))
	}))
	defer yahooSrv.Close()

	kitcoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, kitcoHTML)
	}))
	defer kitcoSrv.Close()

	p := newTestProvider(yahooSrv.URL)
	p.kitcoURL = kitcoSrv.URL

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 38.21, got.Price)
	assert.Equal(t, 0.53, got.Change)
	assert.Equal(t, 1.41, got.ChangePercent)
	assert.Equal(t, models.SourceLive, got.DataSource)
}

func TestFetchFailsWhenBothSourcesDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	p.kitcoURL = srv.URL

	_, err := p.Fetch(context.Background())
	require.Error(t, err)

	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "spot_price", fe.Provider)
}

func TestFetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"regularMarketPrice":38.03,"chartPreviousClose":36.62},"timestamp":[1756339200,1756425600,1756512000],"indicators":{"quote":[{"close":[37.9,0,38.2]}]}}]}}`)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	points, err := p.FetchHistory(context.Background(), "1mo")
	require.NoError(t, err)
	// The zero close is dropped.
	require.Len(t, points, 2)
	assert.Equal(t, 37.9, points[0].Price)
	assert.Equal(t, 38.2, points[1].Price)
	assert.Less(t, points[0].Date, points[1].Date)
}

func TestFallbackLiterals(t *testing.T) {
	now := time.Now()
	q := Fallback(now)
	assert.Equal(t, FallbackPrice, q.Price)
	assert.Equal(t, FallbackChange, q.Change)
	assert.Equal(t, FallbackChangePercent, q.ChangePercent)
	assert.Equal(t, now, q.Timestamp)
}
