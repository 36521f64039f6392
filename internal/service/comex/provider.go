package comex

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"

	"SilverPulse/internal/domain/models"
	apphttp "SilverPulse/pkg/http"
	"SilverPulse/pkg/util"

	"github.com/xuri/excelize/v2"
)

// Plausibility band for total registered silver in raw troy ounces.
// The vault report always lands between one million and five hundred
// million oz; anything else means the sheet layout shifted under us.
const (
	registeredBandLow  = 1_000_000.0
	registeredBandHigh = 500_000_000.0
)

// Cell values below this are row labels, contract counts or subtotals,
// not vault totals.
const minInventoryCell = 100_000.0

var reportDateRe = regexp.MustCompile(`Report Date:\s*([0-9/]+)`)

// Provider downloads and parses the CME daily silver stocks workbook.
// This metric has no fallback literal; when live and cached data are both
// gone the ladder exhausts.
type Provider struct {
	reportURL string
	http      *apphttp.Client
}

// NewProvider creates a COMEX inventory provider.
func NewProvider(reportURL string, httpClient *apphttp.Client) *Provider {
	return &Provider{reportURL: reportURL, http: httpClient}
}

// Fetch downloads the workbook and extracts the registered and eligible
// totals in million oz.
func (p *Provider) Fetch(ctx context.Context) (models.InventoryReading, error) {
	body, err := p.http.GetBytes(ctx, &apphttp.RequestOptions{URL: p.reportURL})
	if err != nil {
		return models.InventoryReading{}, models.NewFetchError("comex_inventory", err)
	}
	return p.parse(body)
}

func (p *Provider) parse(body []byte) (models.InventoryReading, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return models.InventoryReading{}, models.NewParseError("comex_inventory", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.InventoryReading{}, models.NewParseErrorf("comex_inventory", "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.InventoryReading{}, models.NewParseError("comex_inventory", err)
	}

	var totalRegistered, totalEligible float64
	var reportDate string

	for _, row := range rows {
		if reportDate == "" {
			if m := reportDateRe.FindStringSubmatch(strings.Join(row, " ")); m != nil {
				reportDate = m[1]
				if d, ok := util.ParseReportDate(reportDate); ok {
					reportDate = util.DateKey(d)
				}
			}
		}
		if len(row) < 2 {
			continue
		}

		switch strings.TrimSpace(row[0]) {
		case "Registered":
			totalRegistered += rightmostTotal(row)
		case "Eligible":
			totalEligible += rightmostTotal(row)
		}
	}

	if totalRegistered < registeredBandLow || totalRegistered > registeredBandHigh {
		return models.InventoryReading{}, models.NewPlausibilityError(
			"comex_inventory", "registered", totalRegistered, registeredBandLow, registeredBandHigh)
	}

	registeredM := totalRegistered / 1e6
	eligibleM := totalEligible / 1e6

	return models.InventoryReading{
		RegisteredOz: registeredM,
		EligibleOz:   eligibleM,
		TotalOz:      registeredM + eligibleM,
		ReportDate:   reportDate,
		Timestamp:    time.Now(),
		DataSource:   models.SourceLive,
	}, nil
}

// rightmostTotal finds the rightmost cell that looks like a vault total
// (the "TOTAL TODAY" column, whose position varies across depositories).
func rightmostTotal(row []string) float64 {
	for j := len(row) - 1; j >= 0; j-- {
		if v, ok := util.ParseNumber(row[j]); ok && v > minInventoryCell {
			return v
		}
	}
	return 0
}
