package models

import "time"

// DataSource tags where a reading came from. The dashboard renders trust
// indicators from this field, so it must survive every hop.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceCached   DataSource = "cached"
	SourceFallback DataSource = "fallback"
)

// PriceQuote is one point-in-time read of the silver spot price.
type PriceQuote struct {
	Price         float64    `json:"price"`
	Change        float64    `json:"change"`
	ChangePercent float64    `json:"changePercent"`
	Timestamp     time.Time  `json:"timestamp"`
	DataSource    DataSource `json:"dataSource"`
	Error         string     `json:"error,omitempty"`
}

func (q PriceQuote) WithSource(src DataSource, errMsg string) PriceQuote {
	q.DataSource = src
	if errMsg != "" {
		q.Error = errMsg
	}
	return q
}

// InventoryReading holds COMEX silver vault totals in million troy ounces.
type InventoryReading struct {
	RegisteredOz float64    `json:"registeredOz"`
	EligibleOz   float64    `json:"eligibleOz"`
	TotalOz      float64    `json:"totalOz"`
	ReportDate   string     `json:"reportDate,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
	DataSource   DataSource `json:"dataSource"`
	Error        string     `json:"error,omitempty"`
}

func (r InventoryReading) WithSource(src DataSource, errMsg string) InventoryReading {
	r.DataSource = src
	if errMsg != "" {
		r.Error = errMsg
	}
	return r
}

// MarginReading holds CME silver futures margin requirements per contract.
type MarginReading struct {
	InitialMargin     float64    `json:"initialMargin"`
	MaintenanceMargin float64    `json:"maintenanceMargin"`
	PerOunce          float64    `json:"perOunce"`
	ChangePercent     float64    `json:"changePercent"`
	Timestamp         time.Time  `json:"timestamp"`
	DataSource        DataSource `json:"dataSource"`
	Error             string     `json:"error,omitempty"`
}

func (r MarginReading) WithSource(src DataSource, errMsg string) MarginReading {
	r.DataSource = src
	if errMsg != "" {
		r.Error = errMsg
	}
	return r
}

// PremiumReading is a regional/physical premium over the COMEX reference, USD/oz.
type PremiumReading struct {
	PremiumPerOz float64    `json:"premiumPerOz"`
	Timestamp    time.Time  `json:"timestamp"`
	DataSource   DataSource `json:"dataSource"`
	Error        string     `json:"error,omitempty"`
}

func (r PremiumReading) WithSource(src DataSource, errMsg string) PremiumReading {
	r.DataSource = src
	if errMsg != "" {
		r.Error = errMsg
	}
	return r
}

// ETFPairReading compares two silver trust ETFs (SLV vs SIVR) that should
// track each other closely; divergence is a plumbing-stress signal.
type ETFPairReading struct {
	PriceA            float64    `json:"priceA"`
	PriceB            float64    `json:"priceB"`
	ChangeA           float64    `json:"changeA"`
	ChangeB           float64    `json:"changeB"`
	DivergencePercent float64    `json:"divergencePercent"`
	Timestamp         time.Time  `json:"timestamp"`
	DataSource        DataSource `json:"dataSource"`
	Error             string     `json:"error,omitempty"`
}

func (r ETFPairReading) WithSource(src DataSource, errMsg string) ETFPairReading {
	r.DataSource = src
	if errMsg != "" {
		r.Error = errMsg
	}
	return r
}

// HistoricalPoint is one day of the historical price series.
type HistoricalPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Price float64 `json:"price"`
}

// Divergence computes |a-b|/b*100, the pair divergence in percent.
func Divergence(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return d / b * 100
}
