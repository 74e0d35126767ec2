package perfcalc

import "testing"

func TestAnnualize(t *testing.T) {
	testCases := []struct {
		name string
		days int
		perf Percent
		want Percent
	}{
		{name: "one year is itself", days: 365, perf: P(0.10), want: P(0.10)},
		{name: "half year compounds", days: 182, perf: P(0.05), want: P(0.1028)},
		{name: "two years de-compounds", days: 730, perf: P(0.21), want: P(0.10)},
		{name: "zero days", days: 0, perf: P(0.10), want: P(0)},
		{name: "negative days", days: -10, perf: P(0.10), want: P(0)},
		{name: "total loss leaves the domain", days: 100, perf: P(-1), want: P(0)},
		{name: "worse than total loss", days: 100, perf: P(-1.5), want: P(0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Annualize(tc.days, tc.perf); !got.EqualApprox(tc.want) {
				t.Errorf("Annualize(%d, %s) = %s, want ~%s", tc.days, tc.perf, got, tc.want)
			}
		})
	}
}

func TestChartStep(t *testing.T) {
	testCases := []struct {
		days     int
		maxItems int
		want     int
	}{
		{days: 100, maxItems: 365, want: 1},
		{days: 365, maxItems: 365, want: 1},
		{days: 730, maxItems: 365, want: 2},
		{days: 3650, maxItems: 365, want: 10},
		{days: 0, maxItems: 365, want: 1},
		{days: 1000, maxItems: 0, want: 3}, // falls back to MaxChartItems
	}
	for _, tc := range testCases {
		if got := ChartStep(tc.days, tc.maxItems); got != tc.want {
			t.Errorf("ChartStep(%d, %d) = %d, want %d", tc.days, tc.maxItems, got, tc.want)
		}
	}
}
