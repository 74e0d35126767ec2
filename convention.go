package perfcalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Convention selects how invested capital is measured when turning a
// performance amount into a percentage. It is a closed set; every percentage
// within one snapshot is computed under the same convention.
type Convention string

const (
	// ROI divides by the net invested cost basis (buys minus sell proceeds).
	ROI Convention = "ROI"
	// ROAI divides by the average invested capital over the period.
	ROAI Convention = "ROAI"
	// TWR divides by the exposure-weighted investment: capital weighted by the
	// days it was actually at risk.
	TWR Convention = "TWR"
	// MWR divides by a Modified-Dietz denominator: starting capital plus
	// day-weighted net flows.
	MWR Convention = "MWR"
)

// ParseConvention parses a string into a Convention.
func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case ROI, ROAI, TWR, MWR:
		return Convention(s), nil
	default:
		return "", fmt.Errorf("unknown performance convention: %q", s)
	}
}

// Flow is a change of net invested capital at a date.
type Flow struct {
	On     Date
	Amount Money
}

// FlowStep is a span of days over which invested capital and held quantity
// are constant.
type FlowStep struct {
	From, To   Date // inclusive bounds
	Investment Money
	Quantity   Quantity
}

// FlowSchedule describes a position's invested capital over an evaluation
// window. Steps are contiguous and cover the whole window; flows list the
// capital changes inside it.
type FlowSchedule struct {
	Window          Range
	Steps           []FlowStep
	Flows           []Flow
	StartInvestment Money
	EndInvestment   Money
}

// Currency returns the currency the schedule amounts are denominated in.
func (s FlowSchedule) Currency() string {
	if c := s.EndInvestment.Currency(); c != "" {
		return c
	}
	return s.StartInvestment.Currency()
}

// Denominator measures the invested capital of a schedule under the
// convention. A denominator that is zero or negative makes the percentage
// undefined; callers map that to a defined zero.
func (c Convention) Denominator(s FlowSchedule) Money {
	switch c {
	case ROI:
		return s.EndInvestment
	case ROAI:
		return averageInvestment(s, false)
	case TWR:
		return averageInvestment(s, true)
	case MWR:
		return dietzDenominator(s)
	default:
		return Money{}
	}
}

// averageInvestment computes the day-weighted average invested capital over
// the window. With exposureOnly, days with no held quantity carry no weight.
func averageInvestment(s FlowSchedule, exposureOnly bool) Money {
	total := decimal.Zero
	weighted := decimal.Zero
	for _, step := range s.Steps {
		days := decimal.NewFromInt(int64(DaysBetween(step.From, step.To) + 1))
		if exposureOnly && step.Quantity.IsZero() {
			continue
		}
		total = total.Add(days)
		weighted = weighted.Add(step.Investment.Amount().Mul(days))
	}
	if total.IsZero() {
		return M(decimal.Zero, s.Currency())
	}
	return M(weighted.Div(total), s.Currency())
}

// dietzDenominator is the Modified Dietz capital base: starting investment
// plus every flow weighted by the fraction of the window it was invested for.
func dietzDenominator(s FlowSchedule) Money {
	totalDays := DaysBetween(s.Window.From, s.Window.To)
	if totalDays <= 0 {
		return s.EndInvestment
	}
	total := decimal.NewFromInt(int64(totalDays))
	base := s.StartInvestment.Amount()
	for _, flow := range s.Flows {
		elapsed := decimal.NewFromInt(int64(DaysBetween(s.Window.From, flow.On)))
		weight := total.Sub(elapsed).Div(total)
		base = base.Add(flow.Amount.Amount().Mul(weight))
	}
	return M(base, s.Currency())
}

// percentage turns a performance amount into a ratio of the schedule's
// denominator. Undefined denominators yield a defined zero, never a domain
// error.
func (c Convention) percentage(performance Money, s FlowSchedule) Percent {
	denominator := c.Denominator(s)
	if !denominator.IsPositive() {
		return Percent{}
	}
	return performance.Ratio(denominator)
}
