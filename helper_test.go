package perfcalc

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

// stubQuotes is an in-memory QuoteProvider backed by fixed maps.
type stubQuotes struct {
	quotes map[string]Quote
	series map[string]map[Date]Money
}

func (s stubQuotes) Quotes(_ context.Context, items []QuoteItem) (map[string]Quote, error) {
	result := make(map[string]Quote)
	for _, item := range items {
		if quote, ok := s.quotes[item.Symbol]; ok {
			result[item.Symbol] = quote
		}
	}
	return result, nil
}

func (s stubQuotes) Historical(_ context.Context, items []QuoteItem, from, to Date) (map[string]map[Date]Money, error) {
	result := make(map[string]map[Date]Money)
	for _, item := range items {
		prices, ok := s.series[item.Symbol]
		if !ok {
			continue
		}
		window := make(map[Date]Money)
		for on, price := range prices {
			if on.Before(from) || on.After(to) {
				continue
			}
			window[on] = price
		}
		result[item.Symbol] = window
	}
	return result, nil
}

// rateTable is a RateConverter with per-date rates, keyed "CHF->USD".
type rateTable map[string]map[Date]float64

func (r rateTable) Convert(amount Money, target string, on Date) (Money, error) {
	if amount.Currency() == "" || amount.Currency() == target {
		return M(amount.Amount(), target), nil
	}
	rate, ok := r[amount.Currency()+"->"+target][on]
	if !ok {
		return Money{}, ErrDataUnavailable
	}
	return M(amount.Amount().Mul(decimal.NewFromFloat(rate)), target), nil
}

// flatRate converts every pair with one constant rate.
type flatRate float64

func (r flatRate) Convert(amount Money, target string, _ Date) (Money, error) {
	if amount.Currency() == "" || amount.Currency() == target {
		return M(amount.Amount(), target), nil
	}
	return M(amount.Amount().Mul(decimal.NewFromFloat(float64(r))), target), nil
}

// The reference single-instrument fixture: one buy with a fee, one dividend,
// evaluated much later against a known market price.
func msftOrders() []Order {
	return []Order{
		{
			Date:      MustParseDate("2021-09-16"),
			Symbol:    "MSFT",
			Currency:  "USD",
			Type:      OrderBuy,
			Quantity:  Q(1),
			UnitPrice: M(298.58, "USD"),
			Fee:       M(19, "USD"),
		},
		{
			Date:      MustParseDate("2021-11-16"),
			Symbol:    "MSFT",
			Currency:  "USD",
			Type:      OrderDividend,
			Quantity:  Q(1),
			UnitPrice: M(0.62, "USD"),
		},
	}
}

func msftMarket() stubQuotes {
	return stubQuotes{
		quotes: map[string]Quote{
			"MSFT": {MarketPrice: M(331.83, "USD"), MarketState: "open"},
		},
		series: map[string]map[Date]Money{
			"MSFT": {
				MustParseDate("2021-09-16"): M(298.58, "USD"),
				MustParseDate("2021-11-16"): M(339.51, "USD"),
				MustParseDate("2023-07-09"): M(337.22, "USD"),
				MustParseDate("2023-07-10"): M(331.83, "USD"),
			},
		},
	}
}

func newTestCalculator(t *testing.T, opts Options) *Calculator {
	t.Helper()
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func findPosition(t *testing.T, positions []TimelinePosition, symbol string) TimelinePosition {
	t.Helper()
	for _, p := range positions {
		if p.Symbol == symbol {
			return p
		}
	}
	t.Fatalf("no position for %s", symbol)
	return TimelinePosition{}
}
