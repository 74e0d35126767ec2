package perfcalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a plain return ratio (0.05 means 5%). It is decimal-backed so
// that identical inputs always produce bit-identical outputs.
type Percent struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool       { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool               { return p.value.IsZero() }
func (p Percent) IsNegative() bool           { return p.value.IsNegative() }
func (p Percent) Add(q Percent) Percent      { return Percent{value: p.value.Add(q.value)} }
func (p Percent) Sub(q Percent) Percent      { return Percent{value: p.value.Sub(q.value)} }
func (p Percent) Mul(q Percent) Percent      { return Percent{value: p.value.Mul(q.value)} }
func (p Percent) Value() decimal.Decimal     { return p.value }
func (p Percent) InexactFloat64() float64    { return p.value.InexactFloat64() }

// EqualApprox compares two percentages with a fixed tolerance. Useful in tests
// where a reference value is only known to a few digits.
func (p Percent) EqualApprox(q Percent) bool {
	const precision = "0.0001"
	diff := p.value.Sub(q.value).Abs()
	return diff.LessThan(decimal.RequireFromString(precision))
}

// String renders the ratio as a percentage with two decimals, e.g. "5.00%".
func (p Percent) String() string {
	return fmt.Sprintf("%s%%", p.value.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

// SignedString is like String with an explicit sign. 0 renders as "-".
func (p Percent) SignedString() string {
	if p.value.IsZero() {
		return "-"
	}
	if p.value.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}

// MarshalJSON implements the json.Marshaler interface for Percent.
func (p Percent) MarshalJSON() ([]byte, error) {
	return p.value.MarshalJSON()
}

func (p *Percent) UnmarshalJSON(decimalBytes []byte) error {
	return p.value.UnmarshalJSON(decimalBytes)
}
