package etf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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

func pairServer(t *testing.T, priceA, priceB float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/chart/SLV"):
			fmt.Fprint(w, chartJSON(priceA, priceA-0.15))
		case strings.Contains(r.URL.Path, "/chart/SIVR"):
			fmt.Fprint(w, chartJSON(priceB, priceB-0.14))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestFetchPair(t *testing.T) {
	srv := pairServer(t, 22.50, 22.45)
	defer srv.Close()

	yc := yahoo.NewClient(srv.URL, apphttp.NewClient(apphttp.WithTimeout(2*time.Second)))
	p := NewProvider(yc, "SLV", "SIVR")

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22.50, got.PriceA)
	assert.Equal(t, 22.45, got.PriceB)
	assert.InDelta(t, 0.2227, got.DivergencePercent, 0.001)
	assert.Equal(t, models.SourceLive, got.DataSource)
}

func TestFetchRejectsImplausiblePrice(t *testing.T) {
	srv := pairServer(t, 22.50, 350)
	defer srv.Close()

	yc := yahoo.NewClient(srv.URL, apphttp.NewClient(apphttp.WithTimeout(2*time.Second)))
	p := NewProvider(yc, "SLV", "SIVR")

	_, err := p.Fetch(context.Background())
	require.Error(t, err)

	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.KindPlausibility, fe.Kind)
}

func TestFetchFailsWhenOneFundDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/chart/SLV") {
			fmt.Fprint(w, chartJSON(22.50, 22.35))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	yc := yahoo.NewClient(srv.URL, apphttp.NewClient(apphttp.WithTimeout(2*time.Second)))
	p := NewProvider(yc, "SLV", "SIVR")

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
}

func TestFallback(t *testing.T) {
	now := time.Now()
	got := Fallback(now)
	assert.Equal(t, FallbackPriceA, got.PriceA)
	assert.Equal(t, FallbackDivergence, got.DivergencePercent)
	assert.Equal(t, now, got.Timestamp)
}
