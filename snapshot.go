package perfcalc

import (
	"context"
)

// TimelinePosition is the aggregated state and performance of one symbol at
// the end of an evaluation window. Plain amounts are in the position's own
// currency; the WithCurrencyEffect variants are in the base currency,
// converted at the date of each underlying cash flow.
type TimelinePosition struct {
	Symbol           string    `json:"symbol"`
	Currency         string    `json:"currency"`
	DataSource       string    `json:"dataSource,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	Quantity         Quantity  `json:"quantity"`
	AveragePrice     Money     `json:"averagePrice"`
	Investment       Money     `json:"investment"`
	Fee              Money     `json:"fee"`
	Dividend         Money     `json:"dividend"`
	FirstBuyDate     Date      `json:"firstBuyDate,omitzero"`
	TransactionCount int       `json:"transactionCount"`

	// MarketDataMissing marks a position whose quote or historical series
	// could not be fetched: its performance fields are undefined.
	MarketDataMissing bool `json:"marketDataMissing,omitempty"`

	MarketPrice               Money `json:"marketPrice"`
	MarketValue               Money `json:"marketValue"`
	MarketValueInBaseCurrency Money `json:"marketValueInBaseCurrency"`

	InvestmentWithCurrencyEffect Money `json:"investmentWithCurrencyEffect"`
	DividendInBaseCurrency       Money `json:"dividendInBaseCurrency"`
	FeeInBaseCurrency            Money `json:"feeInBaseCurrency"`

	GrossPerformance                             Money   `json:"grossPerformance"`
	GrossPerformancePercentage                   Percent `json:"grossPerformancePercentage"`
	GrossPerformanceWithCurrencyEffect           Money   `json:"grossPerformanceWithCurrencyEffect"`
	GrossPerformancePercentageWithCurrencyEffect Percent `json:"grossPerformancePercentageWithCurrencyEffect"`

	NetPerformance                             Money   `json:"netPerformance"`
	NetPerformancePercentage                   Percent `json:"netPerformancePercentage"`
	NetPerformanceWithCurrencyEffect           Money   `json:"netPerformanceWithCurrencyEffect"`
	NetPerformancePercentageWithCurrencyEffect Percent `json:"netPerformancePercentageWithCurrencyEffect"`

	// Rolling multi-horizon performance, keyed by DateRange.
	NetPerformanceWithCurrencyEffectMap           map[DateRange]Money   `json:"netPerformanceWithCurrencyEffectMap,omitempty"`
	NetPerformancePercentageWithCurrencyEffectMap map[DateRange]Percent `json:"netPerformancePercentageWithCurrencyEffectMap,omitempty"`
}

// CurrentPositions is the aggregated snapshot of all positions over an
// evaluation window. Totals are in the base currency.
type CurrentPositions struct {
	Positions []TimelinePosition `json:"positions"`

	TotalInvestment                   Money `json:"totalInvestment"`
	TotalInvestmentWithCurrencyEffect Money `json:"totalInvestmentWithCurrencyEffect"`
	CurrentValue                      Money `json:"currentValue"`

	GrossPerformance                             Money   `json:"grossPerformance"`
	GrossPerformancePercentage                   Percent `json:"grossPerformancePercentage"`
	GrossPerformanceWithCurrencyEffect           Money   `json:"grossPerformanceWithCurrencyEffect"`
	GrossPerformancePercentageWithCurrencyEffect Percent `json:"grossPerformancePercentageWithCurrencyEffect"`

	NetPerformance                             Money   `json:"netPerformance"`
	NetPerformancePercentage                   Percent `json:"netPerformancePercentage"`
	NetPerformanceWithCurrencyEffect           Money   `json:"netPerformanceWithCurrencyEffect"`
	NetPerformancePercentageWithCurrencyEffect Percent `json:"netPerformancePercentageWithCurrencyEffect"`

	TotalFeesWithCurrencyEffect        Money `json:"totalFeesWithCurrencyEffect"`
	TotalInterestWithCurrencyEffect    Money `json:"totalInterestWithCurrencyEffect"`
	TotalLiabilitiesWithCurrencyEffect Money `json:"totalLiabilitiesWithCurrencyEffect"`

	HasErrors bool          `json:"hasErrors"`
	Errors    []SymbolError `json:"errors,omitempty"`
}

func (c *Calculator) emptyPositions() *CurrentPositions {
	zero := M(0, c.currency)
	return &CurrentPositions{
		Positions:                          []TimelinePosition{},
		TotalInvestment:                    zero,
		TotalInvestmentWithCurrencyEffect:  zero,
		CurrentValue:                       zero,
		GrossPerformance:                   zero,
		GrossPerformanceWithCurrencyEffect: zero,
		NetPerformance:                     zero,
		NetPerformanceWithCurrencyEffect:   zero,
		TotalFeesWithCurrencyEffect:        zero,
		TotalInterestWithCurrencyEffect:    zero,
		TotalLiabilitiesWithCurrencyEffect: zero,
	}
}

// ComputePositions replays the transaction points over [start, end] and
// returns the aggregated position snapshot. The position held before `start`
// forms the baseline, valued at the price in effect on `start`; activities on
// or after `start` are inside the window.
//
// With fetchQuotes disabled no market data is requested and all performance
// fields stay undefined. An empty ledger yields an all-zero result, no error.
func (c *Calculator) ComputePositions(ctx context.Context, start, end Date, fetchQuotes bool) (*CurrentPositions, error) {
	result := c.emptyPositions()
	result.Errors = append(result.Errors, c.buildErrors...)

	endPoint, ok := pointAt(c.points, end)
	if !ok {
		result.HasErrors = len(result.Errors) > 0
		return result, nil
	}
	inception := c.points[0].Date
	start = MaxDate(start, inception)

	items := symbolItems(endPoint)
	var marketData map[string]*symbolMarketData
	if fetchQuotes {
		// Historical series start at inception so every horizon baseline can
		// be valued.
		marketData = c.fetchMarketData(ctx, items, inception, end, true)
	}

	totals := snapshotTotals{
		denominator:     M(0, c.currency),
		denominatorBase: M(0, c.currency),
	}
	for _, item := range items {
		position, perf, softErrors := c.computeSymbol(item.Symbol, start, end, marketData)
		result.Errors = append(result.Errors, softErrors...)
		result.Positions = append(result.Positions, position)
		c.accumulate(result, &totals, position, perf, end)
	}
	result.GrossPerformancePercentage = result.GrossPerformance.Ratio(totals.denominator)
	result.NetPerformancePercentage = result.NetPerformance.Ratio(totals.denominator)
	result.GrossPerformancePercentageWithCurrencyEffect = result.GrossPerformanceWithCurrencyEffect.Ratio(totals.denominatorBase)
	result.NetPerformancePercentageWithCurrencyEffect = result.NetPerformanceWithCurrencyEffect.Ratio(totals.denominatorBase)

	if err := c.accumulatePortfolioFlows(result, end); err != nil {
		return nil, err
	}

	result.HasErrors = len(result.Errors) > 0
	return result, nil
}

// snapshotTotals carries the summed convention denominators across positions,
// so portfolio percentages divide total performance by total denominator.
type snapshotTotals struct {
	denominator     Money
	denominatorBase Money
}

// accumulatePortfolioFlows folds the portfolio-level accumulators of the last
// transaction point (standalone fees, interest, liabilities) into the totals.
func (c *Calculator) accumulatePortfolioFlows(result *CurrentPositions, end Date) error {
	point, ok := pointAt(c.points, end)
	if !ok {
		return nil
	}
	for _, flow := range []struct {
		amount Money
		into   *Money
	}{
		{point.Fees, &result.TotalFeesWithCurrencyEffect},
		{point.Interest, &result.TotalInterestWithCurrencyEffect},
		{point.Liabilities, &result.TotalLiabilitiesWithCurrencyEffect},
	} {
		if flow.amount.IsZero() {
			continue
		}
		converted, err := c.rates.Convert(flow.amount, c.currency, end)
		if err != nil {
			return err
		}
		*flow.into = flow.into.Add(converted)
	}
	return nil
}

// computeSymbol produces the TimelinePosition of one symbol, including the
// rolling horizon map. Missing market data degrades to a soft error; the row
// is still emitted with undefined performance fields.
func (c *Calculator) computeSymbol(symbol string, start, end Date, marketData map[string]*symbolMarketData) (TimelinePosition, *windowPerformance, []SymbolError) {
	var softErrors []SymbolError

	window := c.symbolWindow(symbol, start, end)
	state := window.end

	position := TimelinePosition{
		Symbol:           symbol,
		Currency:         state.Currency,
		DataSource:       state.DataSource,
		Tags:             state.Tags,
		Quantity:         state.Quantity,
		AveragePrice:     state.AveragePrice,
		Investment:       state.Investment,
		Fee:              state.Fees,
		Dividend:         state.Dividends,
		FirstBuyDate:     state.FirstBuyDate,
		TransactionCount: state.TransactionCount,
	}

	md := marketData[symbol]
	if md == nil || md.err != nil {
		position.MarketDataMissing = true
		if md != nil && md.err != nil {
			softErrors = append(softErrors, *md.err)
		} else if marketData != nil {
			softErrors = append(softErrors, newSymbolError(symbol, state.DataSource, "no market data", ErrDataUnavailable))
		}
		return position, nil, softErrors
	}

	marketPrice, ok := c.resolvePrice(md, end)
	if !ok {
		position.MarketDataMissing = true
		softErrors = append(softErrors, newSymbolError(symbol, state.DataSource, "no price in evaluation window", ErrDataUnavailable))
		return position, nil, softErrors
	}
	position.MarketPrice = marketPrice
	position.MarketValue = marketPrice.Mul(state.Quantity)

	perf, err := c.windowPerformance(window, md, marketPrice)
	if err != nil {
		position.MarketDataMissing = true
		softErrors = append(softErrors, newSymbolError(symbol, state.DataSource, "currency conversion failed: "+err.Error(), err))
		return position, nil, softErrors
	}

	position.MarketValueInBaseCurrency = perf.endValueBase
	position.InvestmentWithCurrencyEffect = perf.investmentBase
	position.DividendInBaseCurrency = perf.dividendsBase
	position.FeeInBaseCurrency = perf.feesBase
	position.GrossPerformance = perf.gross
	position.GrossPerformancePercentage = perf.grossPercentage
	position.GrossPerformanceWithCurrencyEffect = perf.grossBase
	position.GrossPerformancePercentageWithCurrencyEffect = perf.grossBasePercentage
	position.NetPerformance = perf.net
	position.NetPerformancePercentage = perf.netPercentage
	position.NetPerformanceWithCurrencyEffect = perf.netBase
	position.NetPerformancePercentageWithCurrencyEffect = perf.netBasePercentage

	// Rolling horizons: re-resolve the baseline per range and repeat. No
	// additional market data is needed, so this stays O(horizons).
	inception := c.points[0].Date
	position.NetPerformanceWithCurrencyEffectMap = make(map[DateRange]Money, len(SnapshotRanges))
	position.NetPerformancePercentageWithCurrencyEffectMap = make(map[DateRange]Percent, len(SnapshotRanges))
	for _, dr := range SnapshotRanges {
		interval := dr.Interval(inception, end)
		horizon := c.symbolWindow(symbol, interval.From, interval.To)
		horizonPerf, err := c.windowPerformance(horizon, md, marketPrice)
		if err != nil {
			continue
		}
		position.NetPerformanceWithCurrencyEffectMap[dr] = horizonPerf.netBase
		position.NetPerformancePercentageWithCurrencyEffectMap[dr] = horizonPerf.netBasePercentage
	}

	return position, perf, softErrors
}

// resolvePrice picks the evaluation price: the live quote when present,
// otherwise the last historical price carried forward.
func (c *Calculator) resolvePrice(md *symbolMarketData, end Date) (Money, bool) {
	if md.hasQuote {
		return md.quote.MarketPrice, true
	}
	return md.series.At(end)
}

// accumulate folds one position into the snapshot totals. Positions without
// market data still contribute their invested capital, frozen at the
// evaluation date's rate, but never the performance sums. A conversion the
// rate provider cannot serve is recorded as a soft error so the position
// never silently vanishes from the totals.
func (c *Calculator) accumulate(result *CurrentPositions, totals *snapshotTotals, position TimelinePosition, perf *windowPerformance, end Date) {
	var convErr error
	frozen := func(amount Money, into *Money) {
		converted, err := c.rates.Convert(amount, c.currency, end)
		if err != nil {
			convErr = err
			return
		}
		*into = into.Add(converted)
	}

	frozen(position.Investment, &result.TotalInvestment)
	if !position.MarketDataMissing && perf != nil {
		result.TotalInvestmentWithCurrencyEffect = result.TotalInvestmentWithCurrencyEffect.Add(position.InvestmentWithCurrencyEffect)
		result.CurrentValue = result.CurrentValue.Add(position.MarketValueInBaseCurrency)
		result.TotalFeesWithCurrencyEffect = result.TotalFeesWithCurrencyEffect.Add(position.FeeInBaseCurrency)

		result.GrossPerformanceWithCurrencyEffect = result.GrossPerformanceWithCurrencyEffect.Add(position.GrossPerformanceWithCurrencyEffect)
		result.NetPerformanceWithCurrencyEffect = result.NetPerformanceWithCurrencyEffect.Add(position.NetPerformanceWithCurrencyEffect)
		frozen(position.GrossPerformance, &result.GrossPerformance)
		frozen(position.NetPerformance, &result.NetPerformance)

		frozen(perf.denominator, &totals.denominator)
		totals.denominatorBase = totals.denominatorBase.Add(perf.denominatorBase)
	}

	if convErr != nil {
		result.Errors = append(result.Errors, newSymbolError(position.Symbol, position.DataSource,
			"rate conversion for totals failed: "+convErr.Error(), convErr))
	}
}
