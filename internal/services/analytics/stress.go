package analytics

import (
	"math"
	"time"

	"SilverPulse/internal/domain/models"
)

// DefaultOpenInterest is the assumed silver futures open interest, in
// contracts, when no live figure is supplied.
const DefaultOpenInterest = 180000

// ContractOunces is the deliverable size of one silver futures contract.
const ContractOunces = 5000

// StressInputs are the already-fetched values the calculator combines.
// OpenInterest of zero means "use the default".
type StressInputs struct {
	RegisteredInventory float64 // million oz
	ShanghaiPremium     float64 // USD/oz over COMEX
	MarginChangePercent float64
	OpenInterest        int // contracts
}

// ComputeStressIndex combines four delivery-stress signals into a 0-100
// composite. Pure function: no I/O, identical inputs give identical
// output.
func ComputeStressIndex(in StressInputs) models.StressIndexResult {
	factors := models.FactorScores{
		Inventory: inventoryScore(in.RegisteredInventory),
		Coverage:  coverageScore(in.RegisteredInventory, in.OpenInterest),
		Premium:   premiumScore(in.ShanghaiPremium),
		Margin:    marginScore(in.MarginChangePercent),
	}

	sum := factors.Inventory + factors.Coverage + factors.Premium + factors.Margin
	index := int(math.Round(float64(sum)))
	if index > 100 {
		index = 100
	}

	level, interpretation := classify(index)

	return models.StressIndexResult{
		Index:          index,
		Level:          level,
		Factors:        factors,
		Interpretation: interpretation,
		Timestamp:      time.Now(),
	}
}

// inventoryScore maps registered inventory (million oz) to 0-30.
// Less metal in the vaults, more stress.
func inventoryScore(inventory float64) int {
	switch {
	case inventory >= 200:
		return 0
	case inventory >= 150:
		return 5
	case inventory >= 100:
		return 12
	case inventory >= 75:
		return 18
	case inventory >= 50:
		return 24
	default:
		return 30
	}
}

// coverageScore maps the registered-inventory-to-open-interest coverage
// ratio to 0-35. A ratio below 0.15 means under 15% of the metal
// notionally claimed by futures actually sits in deliverable vaults.
func coverageScore(inventory float64, openInterest int) int {
	if openInterest <= 0 {
		openInterest = DefaultOpenInterest
	}

	totalOzClaimed := float64(openInterest) * ContractOunces / 1e6 // million oz
	ratio := inventory / totalOzClaimed

	switch {
	case ratio >= 0.5:
		return 0
	case ratio >= 0.3:
		return 15
	case ratio >= 0.15:
		return 25
	default:
		return 35
	}
}

// premiumScore maps the Shanghai premium (USD/oz) to 0-20. A sustained
// premium means physical metal trades above the paper price.
func premiumScore(premium float64) int {
	switch {
	case premium < 0.5:
		return 0
	case premium < 2:
		return 7
	case premium < 5:
		return 13
	default:
		return 20
	}
}

// marginScore maps the recent margin requirement change (percent) to
// 0-15. Exchanges hike margins when they see delivery risk.
func marginScore(changePercent float64) int {
	switch {
	case changePercent < 20:
		return 0
	case changePercent < 50:
		return 5
	case changePercent < 100:
		return 10
	default:
		return 15
	}
}

func classify(index int) (models.StressLevel, string) {
	switch {
	case index < 40:
		return models.StressLow, "Normal market conditions. Adequate inventory and healthy delivery mechanisms."
	case index < 60:
		return models.StressModerate, "Elevated stress. Inventory declining but delivery system functioning."
	case index < 80:
		return models.StressHigh, "Significant stress. Inventory critically low. Delivery delays possible."
	default:
		return models.StressCritical, "Extreme stress. Force majeure risk. Physical shortage imminent."
	}
}
