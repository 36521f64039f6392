package models

import "time"

// StressLevel is the discrete severity band of the delivery stress index.
type StressLevel string

const (
	StressLow      StressLevel = "LOW"
	StressModerate StressLevel = "MODERATE"
	StressHigh     StressLevel = "HIGH"
	StressCritical StressLevel = "CRITICAL"
)

// FactorScores are the bounded sub-scores that sum into the index.
type FactorScores struct {
	Inventory int `json:"inventoryScore"`
	Coverage  int `json:"coverageScore"`
	Premium   int `json:"premiumScore"`
	Margin    int `json:"marginScore"`
}

// StressIndexResult is the composite delivery stress indicator, 0-100.
type StressIndexResult struct {
	Index          int          `json:"index"`
	Level          StressLevel  `json:"level"`
	Factors        FactorScores `json:"factors"`
	Interpretation string       `json:"interpretation"`
	Timestamp      time.Time    `json:"timestamp"`
}
