package perfcalc

import (
	"testing"
)

func testSchedule() FlowSchedule {
	d := func(day int) Date { return NewDate(2025, 1, day) }
	return FlowSchedule{
		Window: NewRange(d(1), d(10)),
		Steps: []FlowStep{
			{From: d(1), To: d(5), Investment: M(100, "USD"), Quantity: Q(1)},
			{From: d(6), To: d(10), Investment: M(200, "USD"), Quantity: Q(2)},
		},
		Flows:           []Flow{{On: d(6), Amount: M(100, "USD")}},
		StartInvestment: M(100, "USD"),
		EndInvestment:   M(200, "USD"),
	}
}

func TestConvention_Denominator(t *testing.T) {
	s := testSchedule()

	testCases := []struct {
		convention Convention
		want       Money
	}{
		{ROI, M(200, "USD")},
		// Day-weighted: (100x5 + 200x5) / 10.
		{ROAI, M(150, "USD")},
		{TWR, M(150, "USD")},
	}
	for _, tc := range testCases {
		t.Run(string(tc.convention), func(t *testing.T) {
			if got := tc.convention.Denominator(s); !got.Equal(tc.want) {
				t.Errorf("denominator = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestConvention_TWRSkipsUnexposedDays(t *testing.T) {
	s := testSchedule()
	// First half of the window holds nothing.
	s.Steps[0].Investment = M(0, "USD")
	s.Steps[0].Quantity = Q(0)

	if got, want := ROAI.Denominator(s), M(100, "USD"); !got.Equal(want) {
		t.Errorf("ROAI denominator = %s, want %s", got, want)
	}
	if got, want := TWR.Denominator(s), M(200, "USD"); !got.Equal(want) {
		t.Errorf("TWR denominator = %s, want %s", got, want)
	}
}

func TestConvention_ModifiedDietz(t *testing.T) {
	s := testSchedule()
	// 9 elapsed days in the window; the day-6 flow is invested for 4 of them:
	// 100 + 100 x 4/9.
	got := MWR.Denominator(s)
	want := M(100+100*4.0/9.0, "USD")
	if diff := got.Sub(want); diff.Amount().Abs().InexactFloat64() > 0.0001 {
		t.Errorf("MWR denominator = %s, want ~%s", got, want)
	}
}

func TestConvention_PercentageGuardsDegenerateDenominator(t *testing.T) {
	s := testSchedule()
	s.StartInvestment = M(0, "USD")
	s.EndInvestment = M(0, "USD")

	if got := ROI.percentage(M(50, "USD"), s); !got.IsZero() {
		t.Errorf("percentage with zero denominator = %s, want 0", got)
	}

	s.EndInvestment = M(-10, "USD")
	if got := ROI.percentage(M(50, "USD"), s); !got.IsZero() {
		t.Errorf("percentage with negative denominator = %s, want 0", got)
	}
}

func TestParseConvention(t *testing.T) {
	for _, valid := range []string{"ROI", "ROAI", "TWR", "MWR"} {
		if _, err := ParseConvention(valid); err != nil {
			t.Errorf("ParseConvention(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseConvention("IRR"); err == nil {
		t.Error("ParseConvention(\"IRR\") should fail")
	}
}
