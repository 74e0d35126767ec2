package perfcalc

import (
	"fmt"
	"strconv"
)

// Range is an inclusive interval of dates.
type Range struct {
	From, To Date
}

// NewRange creates a new Range.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains reports whether a date falls within the range, bounds included.
func (r Range) Contains(on Date) bool {
	return !on.Before(r.From) && !on.After(r.To)
}

// Days returns the number of calendar days covered by the range.
func (r Range) Days() int { return DaysBetween(r.From, r.To) }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// DateRange names a reporting horizon relative to an evaluation date, e.g.
// "1d", "wtd", "ytd", "5y", "max", or a literal year like "2024".
type DateRange string

const (
	Range1D  DateRange = "1d"
	Range1W  DateRange = "1w"
	RangeWTD DateRange = "wtd"
	Range1M  DateRange = "1m"
	RangeMTD DateRange = "mtd"
	Range3M  DateRange = "3m"
	RangeYTD DateRange = "ytd"
	Range1Y  DateRange = "1y"
	Range3Y  DateRange = "3y"
	Range5Y  DateRange = "5y"
	Range10Y DateRange = "10y"
	RangeMax DateRange = "max"
)

// SnapshotRanges are the horizons computed for every position snapshot.
var SnapshotRanges = []DateRange{Range1D, RangeWTD, RangeMTD, RangeYTD, Range1Y, Range5Y, RangeMax}

// Interval resolves the horizon into a concrete range ending at the
// evaluation date. The start is clamped so it never precedes portfolioStart.
// Unknown values are parsed as a literal year; anything else falls back to
// the full history.
func (dr DateRange) Interval(portfolioStart, evaluatedAt Date) Range {
	start := portfolioStart
	end := evaluatedAt

	switch dr {
	case Range1D:
		start = MaxDate(start, end.Add(-1))
	case Range1W:
		start = MaxDate(start, end.Add(-7))
	case RangeWTD:
		start = MaxDate(start, end.StartOfWeek().Add(-1))
	case Range1M:
		start = MaxDate(start, end.AddMonth(-1))
	case RangeMTD:
		start = MaxDate(start, end.StartOfMonth().Add(-1))
	case Range3M:
		start = MaxDate(start, end.AddMonth(-3))
	case RangeYTD:
		start = MaxDate(start, end.StartOfYear().Add(-1))
	case Range1Y:
		start = MaxDate(start, end.AddYear(-1))
	case Range3Y:
		start = MaxDate(start, end.AddYear(-3))
	case Range5Y:
		start = MaxDate(start, end.AddYear(-5))
	case Range10Y:
		start = MaxDate(start, end.AddYear(-10))
	case RangeMax:
		// full history
	default:
		if year, err := strconv.Atoi(string(dr)); err == nil {
			yearStart := NewDate(year, 1, 1)
			start = MaxDate(start, yearStart)
			end = MinDate(end, yearStart.EndOfYear())
		}
	}

	return NewRange(start, end)
}
