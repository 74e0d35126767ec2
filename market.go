package perfcalc

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// priceSeries is a daily price history with last-known-value lookup.
type priceSeries struct {
	dates  []Date // sorted ascending
	prices map[Date]Money
}

func newPriceSeries(prices map[Date]Money) priceSeries {
	dates := make([]Date, 0, len(prices))
	for on := range prices {
		dates = append(dates, on)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return priceSeries{dates: dates, prices: prices}
}

// At returns the last known price on or before the given date. The price of a
// day without a quote is carried forward from the previous trading day.
func (s priceSeries) At(on Date) (Money, bool) {
	// first date strictly after `on`
	i := sort.Search(len(s.dates), func(i int) bool { return s.dates[i].After(on) })
	if i == 0 {
		return Money{}, false
	}
	return s.prices[s.dates[i-1]], true
}

// IsEmpty reports whether the series holds no prices at all.
func (s priceSeries) IsEmpty() bool { return len(s.dates) == 0 }

// symbolMarketData is the market data gathered for one symbol during a
// snapshot fan-out.
type symbolMarketData struct {
	quote    Quote
	hasQuote bool
	series   priceSeries
	err      *SymbolError
}

// fetchMarketData issues one quote and one historical request per symbol,
// concurrently, bounded by the calculator's quote timeout. Failures are
// captured per symbol so one unreachable symbol never blocks the others.
func (c *Calculator) fetchMarketData(ctx context.Context, items []QuoteItem, from, to Date, withQuotes bool) map[string]*symbolMarketData {
	result := make(map[string]*symbolMarketData, len(items))
	if c.quotes == nil {
		for _, item := range items {
			err := newSymbolError(item.Symbol, item.DataSource, "no quote provider configured", ErrDataUnavailable)
			result[item.Symbol] = &symbolMarketData{err: &err}
		}
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, c.quoteTimeout)
	defer cancel()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, item := range items {
		item := item
		g.Go(func() error {
			data := &symbolMarketData{}

			if withQuotes {
				quotes, err := c.quotes.Quotes(ctx, []QuoteItem{item})
				if quote, ok := quotes[item.Symbol]; err == nil && ok {
					data.quote, data.hasQuote = quote, true
				}
			}

			history, err := c.quotes.Historical(ctx, []QuoteItem{item}, from, to)
			if series, ok := history[item.Symbol]; err == nil && ok {
				data.series = newPriceSeries(series)
			}

			if !data.hasQuote && data.series.IsEmpty() {
				symErr := newSymbolError(item.Symbol, item.DataSource, "no market data", ErrDataUnavailable)
				if err != nil {
					symErr.Err = err
					symErr.Reason = "market data request failed: " + err.Error()
				}
				data.err = &symErr
				c.log.Warn().Str("symbol", item.Symbol).Msg(symErr.Reason)
			}

			mu.Lock()
			result[item.Symbol] = data
			mu.Unlock()
			return nil
		})
	}
	// Goroutines capture failures per symbol and never return an error.
	_ = g.Wait()

	// A symbol cancelled by the timeout may not have stored anything.
	for _, item := range items {
		if _, ok := result[item.Symbol]; !ok {
			err := newSymbolError(item.Symbol, item.DataSource, "market data request timed out", ErrDataUnavailable)
			result[item.Symbol] = &symbolMarketData{err: &err}
		}
	}
	return result
}
