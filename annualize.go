package perfcalc

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxChartItems caps the number of samples a chart series should emit; the
// step size grows with the window instead.
const MaxChartItems = 365

// Annualize converts a total-period return into a yearly rate:
// (1+p)^(365/days) - 1. Zero or negative days, and returns at or below -100%
// that would leave the real domain, yield a defined zero.
func Annualize(daysInMarket int, netPerformancePercentage Percent) Percent {
	if daysInMarket <= 0 {
		return Percent{}
	}
	base := 1 + netPerformancePercentage.InexactFloat64()
	if base <= 0 {
		return Percent{}
	}
	annualized := math.Pow(base, 365/float64(daysInMarket)) - 1
	if math.IsInf(annualized, 0) || math.IsNaN(annualized) {
		return Percent{}
	}
	return P(decimal.NewFromFloat(annualized))
}

// ChartStep picks the day increment that keeps a series of daysInMarket
// samples under maxItems. A non-positive maxItems falls back to
// MaxChartItems.
func ChartStep(daysInMarket, maxItems int) int {
	if maxItems <= 0 {
		maxItems = MaxChartItems
	}
	if daysInMarket <= 0 {
		return 1
	}
	if daysInMarket < maxItems {
		maxItems = daysInMarket
	}
	step := int(math.Round(float64(daysInMarket) / float64(maxItems)))
	if step < 1 {
		step = 1
	}
	return step
}
