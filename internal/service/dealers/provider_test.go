package dealers

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

const apmexPage = `<html><body>
	<div class="product">As low as $7.49 per round over spot</div>
</body></html>`

const jmBullionPage = `<html><body>
	<a href="/charts/">Silver Ask $38.20</a>
	<div>1 oz Round As Low As: $42.71</div>
	<div>1 oz Round (tube) As Low As: $44.10</div>
	<div>Coupon As Low As: $5.00</div>
</body></html>`

func newProvider(t *testing.T, apmexBody, jmBody string, apmexStatus, jmStatus int) *Provider {
	t.Helper()
	apmexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(apmexStatus)
		w.Write([]byte(apmexBody))
	}))
	t.Cleanup(apmexSrv.Close)
	jmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(jmStatus)
		w.Write([]byte(jmBody))
	}))
	t.Cleanup(jmSrv.Close)

	p := NewProvider(apphttp.NewClient(apphttp.WithTimeout(5 * time.Second)))
	p.apmexURL = apmexSrv.URL
	p.jmBullionURL = jmSrv.URL
	return p
}

func TestFetchAveragesBothDealers(t *testing.T) {
	p := newProvider(t, apmexPage, jmBullionPage, http.StatusOK, http.StatusOK)

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)

	// APMEX 7.49, JM Bullion 42.71-38.20=4.51, average 6.00.
	assert.InDelta(t, 6.0, got.PremiumPerOz, 1e-9)
	assert.Equal(t, "live", string(got.DataSource))
}

func TestFetchSurvivesOneDealerDown(t *testing.T) {
	p := newProvider(t, apmexPage, "", http.StatusOK, http.StatusServiceUnavailable)

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 7.49, got.PremiumPerOz, 1e-9)
}

func TestFetchFailsWhenBothDown(t *testing.T) {
	p := newProvider(t, "", "", http.StatusServiceUnavailable, http.StatusServiceUnavailable)

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
}

func TestJMBullionIgnoresPricesBelowSpot(t *testing.T) {
	// Only prices above spot can be product listings; $5.00 is noise.
	page := `<a>Silver Ask $38.20</a> As Low As: $5.00`
	p := newProvider(t, "", page, http.StatusServiceUnavailable, http.StatusOK)

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
}
