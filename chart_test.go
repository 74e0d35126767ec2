package perfcalc

import (
	"context"
	"testing"
)

func TestBuildChart_BoundariesAndCumulativePerformance(t *testing.T) {
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders:   msftOrders(),
		Quotes:   msftMarket(),
	})

	start := MustParseDate("2021-09-16")
	end := MustParseDate("2023-07-10")
	result, err := c.BuildChart(context.Background(), start, end, 100, false)
	if err != nil {
		t.Fatalf("BuildChart() failed: %v", err)
	}
	if len(result.Items) == 0 {
		t.Fatal("empty chart series")
	}

	first := result.Items[0]
	if got, want := first.Date, start; !got.Equal(want) {
		t.Errorf("first sample date = %s, want %s", got, want)
	}
	if got, want := first.Value, M(298.58, "USD"); !got.Equal(want) {
		t.Errorf("first sample value = %s, want %s", got, want)
	}
	// Day one: no market move yet, so cumulative net performance is the fee.
	if got, want := first.NetPerformance, M(-19, "USD"); !got.Equal(want) {
		t.Errorf("first sample net performance = %s, want %s", got, want)
	}
	if got, want := first.TotalInvestmentValue, M(298.58, "USD"); !got.Equal(want) {
		t.Errorf("first sample total investment = %s, want %s", got, want)
	}

	last := result.Items[len(result.Items)-1]
	if got, want := last.Date, end; !got.Equal(want) {
		t.Errorf("last sample date = %s, want %s", got, want)
	}
	if got, want := last.Value, M(331.83, "USD"); !got.Equal(want) {
		t.Errorf("last sample value = %s, want %s", got, want)
	}
	if got, want := last.NetPerformance, M(14.87, "USD"); !got.Equal(want) {
		t.Errorf("last sample net performance = %s, want %s", got, want)
	}

	// The series peaked at 339.51 between the boundaries.
	if result.IsAllTimeHigh {
		t.Error("series wrongly flagged as all-time high")
	}
	if result.IsAllTimeLow {
		t.Error("series wrongly flagged as all-time low")
	}
}

func TestBuildChart_EndDateAlwaysEmitted(t *testing.T) {
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders:   msftOrders(),
		Quotes:   msftMarket(),
	})

	end := MustParseDate("2023-07-10")
	for _, step := range []int{1, 7, 30, 365, 10000} {
		result, err := c.BuildChart(context.Background(), MustParseDate("2021-09-16"), end, step, false)
		if err != nil {
			t.Fatalf("BuildChart(step=%d) failed: %v", step, err)
		}
		last := result.Items[len(result.Items)-1]
		if !last.Date.Equal(end) {
			t.Errorf("step %d: last sample date = %s, want %s", step, last.Date, end)
		}
	}
}

func TestBuildChart_StartsAtInception(t *testing.T) {
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders:   msftOrders(),
		Quotes:   msftMarket(),
	})

	// Requesting a window opening before the first order clamps to inception.
	result, err := c.BuildChart(context.Background(), MustParseDate("2019-01-01"), MustParseDate("2023-07-10"), 30, false)
	if err != nil {
		t.Fatalf("BuildChart() failed: %v", err)
	}
	if got, want := result.Items[0].Date, MustParseDate("2021-09-16"); !got.Equal(want) {
		t.Errorf("first sample date = %s, want inception %s", got, want)
	}
}

func TestBuildChart_TimeWeightedIgnoresFlowTiming(t *testing.T) {
	d0 := MustParseDate("2025-01-01")
	d3 := MustParseDate("2025-01-04")
	d5 := MustParseDate("2025-01-06")
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders: []Order{
			{Date: d0, Symbol: "AAPL", Currency: "USD", Type: OrderBuy, Quantity: Q(1), UnitPrice: M(100, "USD")},
			{Date: d3, Symbol: "AAPL", Currency: "USD", Type: OrderBuy, Quantity: Q(1), UnitPrice: M(110, "USD")},
		},
		Quotes: stubQuotes{
			series: map[string]map[Date]Money{"AAPL": {
				d0: M(100, "USD"),
				d3: M(110, "USD"),
				d5: M(120, "USD"),
			}},
		},
	})

	result, err := c.BuildChart(context.Background(), d0, d5, 1, true)
	if err != nil {
		t.Fatalf("BuildChart() failed: %v", err)
	}
	last := result.Items[len(result.Items)-1]

	// Sub-periods grow 100->110 then 220->240: chained factor 1.1 x 12/11 = 1.2,
	// regardless of the mid-window contribution.
	if got, want := last.TimeWeightedPerformance, P(0.2); !got.EqualApprox(want) {
		t.Errorf("time-weighted performance = %s, want ~%s", got, want)
	}
	if result.IsAllTimeHigh != true {
		t.Error("rising series should end at its all-time high")
	}
}

func TestBuildChart_EmptyLedger(t *testing.T) {
	c := newTestCalculator(t, Options{Currency: "USD"})
	result, err := c.BuildChart(context.Background(), MustParseDate("2025-01-01"), MustParseDate("2025-02-01"), 1, false)
	if err != nil {
		t.Fatalf("BuildChart() failed: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("got %d samples for an empty ledger, want none", len(result.Items))
	}
}
