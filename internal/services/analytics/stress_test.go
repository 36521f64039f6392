package analytics

import (
	"testing"

	"SilverPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeStressIndexDeterministic(t *testing.T) {
	in := StressInputs{
		RegisteredInventory: 120,
		ShanghaiPremium:     1.2,
		MarginChangePercent: 25,
	}

	a := ComputeStressIndex(in)
	b := ComputeStressIndex(in)

	assert.Equal(t, a.Index, b.Index)
	assert.Equal(t, a.Level, b.Level)
	assert.Equal(t, a.Factors, b.Factors)
	assert.Equal(t, a.Interpretation, b.Interpretation)
}

func TestInventoryScoreBreakpoints(t *testing.T) {
	cases := []struct {
		inventory float64
		want      int
	}{
		{250, 0},
		{200, 0},
		{199.9, 5},
		{150, 5},
		{149.9, 12},
		{100, 12},
		{99.9, 18},
		{75, 18},
		{74.9, 24},
		{50, 24},
		{49.9, 30},
		{0, 30},
	}
	for _, c := range cases {
		got := ComputeStressIndex(StressInputs{RegisteredInventory: c.inventory}).Factors.Inventory
		assert.Equal(t, c.want, got, "inventory=%v", c.inventory)
	}
}

func TestInventoryScoreMonotonic(t *testing.T) {
	prev := 31
	for _, inv := range []float64{10, 50, 75, 100, 150, 200, 300} {
		score := ComputeStressIndex(StressInputs{RegisteredInventory: inv}).Factors.Inventory
		assert.LessOrEqual(t, score, prev, "score must not increase with inventory")
		prev = score
	}
}

func TestCoverageScore(t *testing.T) {
	// inventory=100M oz, OI=180000 contracts -> claimed = 900M oz ->
	// ratio approx 0.111 -> critical band.
	got := ComputeStressIndex(StressInputs{
		RegisteredInventory: 100,
		OpenInterest:        180000,
	})
	assert.Equal(t, 35, got.Factors.Coverage)

	// Zero open interest falls back to the default 180k contracts.
	def := ComputeStressIndex(StressInputs{RegisteredInventory: 100})
	assert.Equal(t, 35, def.Factors.Coverage)

	// 500M oz against 900M claimed is a 0.55 ratio, healthy.
	healthy := ComputeStressIndex(StressInputs{RegisteredInventory: 500})
	assert.Equal(t, 0, healthy.Factors.Coverage)
}

func TestPremiumScoreBands(t *testing.T) {
	cases := []struct {
		premium float64
		want    int
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 7},
		{1.99, 7},
		{2, 13},
		{4.99, 13},
		{5, 20},
		{11.56, 20},
	}
	for _, c := range cases {
		got := ComputeStressIndex(StressInputs{ShanghaiPremium: c.premium}).Factors.Premium
		assert.Equal(t, c.want, got, "premium=%v", c.premium)
	}
}

func TestMarginScoreBands(t *testing.T) {
	cases := []struct {
		change float64
		want   int
	}{
		{0, 0},
		{19.9, 0},
		{20, 5},
		{49.9, 5},
		{50, 10},
		{62.5, 10},
		{99.9, 10},
		{100, 15},
		{113, 15},
	}
	for _, c := range cases {
		got := ComputeStressIndex(StressInputs{MarginChangePercent: c.change}).Factors.Margin
		assert.Equal(t, c.want, got, "change=%v", c.change)
	}
}

func TestStressIndexEndToEnd(t *testing.T) {
	// 30.2M oz registered, $11.56 premium, 62.5% margin hike.
	got := ComputeStressIndex(StressInputs{
		RegisteredInventory: 30.2,
		ShanghaiPremium:     11.56,
		MarginChangePercent: 62.5,
	})

	assert.Equal(t, 30, got.Factors.Inventory)
	assert.Equal(t, 35, got.Factors.Coverage)
	assert.Equal(t, 20, got.Factors.Premium)
	assert.Equal(t, 10, got.Factors.Margin)
	assert.Equal(t, 95, got.Index)
	assert.Equal(t, models.StressCritical, got.Level)
	assert.Equal(t, "Extreme stress. Force majeure risk. Physical shortage imminent.", got.Interpretation)
}

func TestLevelBands(t *testing.T) {
	cases := []struct {
		in    StressInputs
		level models.StressLevel
	}{
		// Everything healthy: index 0.
		{StressInputs{RegisteredInventory: 500}, models.StressLow},
		// 30+35+20+15 = 100, capped at 100.
		{StressInputs{RegisteredInventory: 1, ShanghaiPremium: 10, MarginChangePercent: 150}, models.StressCritical},
	}
	for _, c := range cases {
		got := ComputeStressIndex(c.in)
		assert.Equal(t, c.level, got.Level)
		assert.GreaterOrEqual(t, got.Index, 0)
		assert.LessOrEqual(t, got.Index, 100)
	}
}

func TestIndexBounds(t *testing.T) {
	got := ComputeStressIndex(StressInputs{
		RegisteredInventory: 1,
		ShanghaiPremium:     100,
		MarginChangePercent: 500,
	})
	assert.Equal(t, 100, got.Index, "sum 30+35+20+15 caps at 100")
}
