package models

import "time"

// Confidence grades how verifiable a news item is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Impact is the expected direction on silver prices.
type Impact string

const (
	ImpactBullish Impact = "bullish"
	ImpactBearish Impact = "bearish"
	ImpactNeutral Impact = "neutral"
)

// NewsItem is one silver market headline with its classification.
type NewsItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	Source       string     `json:"source"`
	SourceURL    string     `json:"sourceUrl"`
	PublishedAt  time.Time  `json:"publishedAt"`
	Confidence   Confidence `json:"confidence"`
	Impact       Impact     `json:"impact"`
	AnalysisNote string     `json:"analysisNote"`
	DataSource   DataSource `json:"dataSource"`
}

// NewsBatch is the cacheable unit for the news feed. Retagging a batch
// retags every item, so staleness is visible per headline.
type NewsBatch struct {
	Items      []NewsItem `json:"items"`
	Timestamp  time.Time  `json:"timestamp"`
	DataSource DataSource `json:"dataSource"`
	Error      string     `json:"error,omitempty"`
}

func (b NewsBatch) WithSource(src DataSource, errMsg string) NewsBatch {
	items := make([]NewsItem, len(b.Items))
	copy(items, b.Items)
	for i := range items {
		items[i].DataSource = src
	}
	b.Items = items
	b.DataSource = src
	if errMsg != "" {
		b.Error = errMsg
	}
	return b
}

// Classification is what the external analyzer returns for one item.
type Classification struct {
	Confidence Confidence `json:"confidence"`
	Impact     Impact     `json:"impact"`
	Analysis   string     `json:"analysis"`
}
