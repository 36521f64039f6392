package cme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMargins(t *testing.T) {
	page := []byte(`<html><body>
		<td>Initial Margin</td><td>$35,200.00</td>
		<td>Maintenance Margin</td><td>$32,000.00</td>
	</body></html>`)

	p := &Provider{}
	got, err := p.parse(page)
	require.NoError(t, err)

	assert.Equal(t, 35200.0, got.InitialMargin)
	assert.Equal(t, 32000.0, got.MaintenanceMargin)
	assert.InDelta(t, 7.04, got.PerOunce, 1e-9)
	assert.InDelta(t, 113.33, got.ChangePercent, 0.01)
}

func TestParseMarginsMissing(t *testing.T) {
	p := &Provider{}
	_, err := p.parse([]byte("<html><body>quote board loading...</body></html>"))
	require.Error(t, err)
}

func TestParseMarginsImplausible(t *testing.T) {
	page := []byte(`Initial margin $7.04 maintenance of $6.40`)
	p := &Provider{}
	_, err := p.parse(page)
	require.Error(t, err)
}

func TestFallback(t *testing.T) {
	got := Fallback(time.Now())
	assert.Equal(t, 35200.0, got.InitialMargin)
	assert.Equal(t, 32000.0, got.MaintenanceMargin)
	assert.InDelta(t, 7.04, got.PerOunce, 1e-9)
	assert.Equal(t, 113.0, got.ChangePercent)
}
