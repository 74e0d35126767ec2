package perfcalc

import "context"

// SymbolHistoryItem is one sampled day in the life of a single holding.
// Prices are in the holding's own currency.
type SymbolHistoryItem struct {
	Date         Date     `json:"date"`
	Quantity     Quantity `json:"quantity"`
	AveragePrice Money    `json:"averagePrice"`
	MarketPrice  Money    `json:"marketPrice"`
}

// SymbolHistory is the day-by-day detail of one holding, with the extreme
// quoted prices over the whole observed series.
type SymbolHistory struct {
	Symbol   string              `json:"symbol"`
	Items    []SymbolHistoryItem `json:"items"`
	MaxPrice Money               `json:"maxPrice"`
	MinPrice Money               `json:"minPrice"`
	Errors   []SymbolError       `json:"errors,omitempty"`
}

// SymbolHistory samples quantity, average price and market price of one symbol
// from its first activity up to end, every step days, always emitting end.
// Days without a quote carry the last known price forward. A symbol absent
// from the ledger yields an empty history, no error.
func (c *Calculator) SymbolHistory(ctx context.Context, symbol string, end Date, step int) (*SymbolHistory, error) {
	result := &SymbolHistory{Symbol: symbol, Items: []SymbolHistoryItem{}}

	endPoint, ok := pointAt(c.points, end)
	if !ok {
		return result, nil
	}
	state, ok := endPoint.Items[symbol]
	if !ok {
		return result, nil
	}
	if step < 1 {
		step = 1
	}

	start := state.FirstBuyDate
	if start.IsZero() {
		start = c.points[0].Date
	}
	marketData := c.fetchMarketData(ctx, []QuoteItem{{Symbol: symbol, DataSource: state.DataSource}}, start, end, false)
	md := marketData[symbol]
	if md.err != nil {
		result.Errors = append(result.Errors, *md.err)
	}

	for day := start; ; day = day.Add(step) {
		if day.After(end) {
			day = end
		}
		point, _ := pointAt(c.points, day)
		st := point.Items[symbol]
		item := SymbolHistoryItem{Date: day, Quantity: st.Quantity, AveragePrice: st.AveragePrice}
		if price, ok := md.series.At(day); ok {
			item.MarketPrice = price
		}
		result.Items = append(result.Items, item)
		if day.Equal(end) {
			break
		}
	}

	// The extremes scan every quoted day, not just the sampled ones.
	for i, on := range md.series.dates {
		price := md.series.prices[on]
		if i == 0 {
			result.MaxPrice, result.MinPrice = price, price
			continue
		}
		if price.GreaterThan(result.MaxPrice) {
			result.MaxPrice = price
		}
		if price.LessThan(result.MinPrice) {
			result.MinPrice = price
		}
	}
	return result, nil
}
