package comex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"COMEX Silver Warehouse Stocks"},
		{"Report Date: 8/29/2025"},
		{"Depository", "Eligible", "Registered", "Total Today"},
		{"Registered", "", "", 120_000_000},
		{"Eligible", "", "", 180_500_000},
	})

	p := &Provider{}
	got, err := p.parse(body)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, got.RegisteredOz, 1e-9)
	assert.InDelta(t, 180.5, got.EligibleOz, 1e-9)
	assert.InDelta(t, 300.5, got.TotalOz, 1e-9)
	assert.Equal(t, "2025-08-29", got.ReportDate)
}

func TestParsePicksRightmostTotal(t *testing.T) {
	// Per-depository columns precede the total; only the rightmost
	// large number is the vault total.
	body := buildWorkbook(t, [][]interface{}{
		{"Registered", 2_000_000, 3_000_000, 95_000_000},
	})

	p := &Provider{}
	got, err := p.parse(body)
	require.NoError(t, err)
	assert.InDelta(t, 95.0, got.RegisteredOz, 1e-9)
}

func TestParseRejectsImplausibleRegistered(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Registered", "", 500_000}, // below the 1M oz floor
	})

	p := &Provider{}
	_, err := p.parse(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plausibility")
}

func TestParseRejectsGarbage(t *testing.T) {
	p := &Provider{}
	_, err := p.parse([]byte("<html>not a workbook</html>"))
	require.Error(t, err)
}

func TestParseNumbersWithSeparators(t *testing.T) {
	body := buildWorkbook(t, [][]interface{}{
		{"Registered", "", "148,364,102"},
		{"Eligible", "", "165,205,441"},
	})

	p := &Provider{}
	got, err := p.parse(body)
	require.NoError(t, err)
	assert.InDelta(t, 148.364102, got.RegisteredOz, 1e-6)
	assert.InDelta(t, 165.205441, got.EligibleOz, 1e-6)
}
