package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "SilverPulse/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {
        "symbol": "SI=F",
        "regularMarketPrice": 38.42,
        "chartPreviousClose": 37.90
      },
      "timestamp": [1756339200, 1756425600, 1756512000],
      "indicators": {
        "quote": [{"close": [37.95, 0, 38.42]}]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, apphttp.NewClient(apphttp.WithTimeout(5*time.Second)))
}

func TestQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/SI=F", r.URL.Path)
		assert.Equal(t, "5d", r.URL.Query().Get("range"))
		w.Write([]byte(chartBody))
	})

	q, err := c.Quote(context.Background(), "SI=F")
	require.NoError(t, err)
	assert.Equal(t, 38.42, q.Price)
	assert.InDelta(t, 0.52, q.Change, 1e-9)
	assert.InDelta(t, 1.3720, q.ChangePercent, 1e-3)
}

func TestQuoteAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := c.Quote(context.Background(), "SI=F")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestQuoteHTTPFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Quote(context.Background(), "SI=F")
	require.Error(t, err)
}

func TestHistoryFiltersZeroCloses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		w.Write([]byte(chartBody))
	})

	points, err := c.History(context.Background(), "SI=F", "1mo")
	require.NoError(t, err)
	require.Len(t, points, 2, "zero closes must be dropped")
	assert.Equal(t, 37.95, points[0].Price)
	assert.Equal(t, 38.42, points[1].Price)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, points[0].Date)
	assert.Less(t, points[0].Date, points[1].Date)
}
