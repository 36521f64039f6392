package sge

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

func okSpot(ctx context.Context) (float64, error) { return 76.03, nil }

func TestFetchPremium(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProvider(okSpot, apphttp.NewClient(apphttp.WithTimeout(2*time.Second)))
	p.refURL = srv.URL

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypicalPremium, got.PremiumPerOz)
	assert.Equal(t, models.SourceLive, got.DataSource)
}

func TestFetchFailsWithoutSpot(t *testing.T) {
	p := NewProvider(func(ctx context.Context) (float64, error) {
		return 0, errors.New("spot unavailable")
	}, apphttp.NewClient(apphttp.WithTimeout(2*time.Second)))

	_, err := p.Fetch(context.Background())
	require.Error(t, err)

	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "shanghai_premium", fe.Provider)
}

func TestFetchFailsWhenReferenceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider(okSpot, apphttp.NewClient(apphttp.WithTimeout(2*time.Second)))
	p.refURL = srv.URL

	_, err := p.Fetch(context.Background())
	require.Error(t, err)
}

func TestPriceCNYPerGram(t *testing.T) {
	// 76.03 USD/oz -> about 17.46 CNY/g at the fixed conversion rate.
	assert.InDelta(t, 17.46, PriceCNYPerGram(76.03), 0.01)
}
