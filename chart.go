package perfcalc

import (
	"context"

	"github.com/shopspring/decimal"
)

// HistoricalDataItem is one sampled day of the chart series. All amounts are
// in the base currency. Performance is cumulative since inception, so the
// series plots directly without re-basing.
type HistoricalDataItem struct {
	Date                                         Date    `json:"date"`
	Value                                        Money   `json:"value"`
	NetPerformance                               Money   `json:"netPerformance"`
	NetPerformanceInPercentage                   Percent `json:"netPerformanceInPercentage"`
	NetPerformanceWithCurrencyEffect             Money   `json:"netPerformanceWithCurrencyEffect"`
	NetPerformanceInPercentageWithCurrencyEffect Percent `json:"netPerformanceInPercentageWithCurrencyEffect"`
	InvestmentValue                              Money   `json:"investmentValue"`
	InvestmentValueWithCurrencyEffect            Money   `json:"investmentValueWithCurrencyEffect"`
	TotalInvestmentValue                         Money   `json:"totalInvestmentValue"`
	TotalInvestmentValueWithCurrencyEffect       Money   `json:"totalInvestmentValueWithCurrencyEffect"`
	TimeWeightedPerformance                      Percent `json:"timeWeightedPerformance,omitempty"`
}

// ChartResult is the decimated series plus the all-time flags, computed by a
// max/min scan over the emitted values.
type ChartResult struct {
	Items         []HistoricalDataItem `json:"items"`
	IsAllTimeHigh bool                 `json:"isAllTimeHigh"`
	IsAllTimeLow  bool                 `json:"isAllTimeLow"`
	Errors        []SymbolError        `json:"errors,omitempty"`
}

// chartState carries the running accumulators of the chart walk. The Base
// fields convert each flow at its own date; the position-currency cumulative
// amounts are read off the transaction points and converted at the sampled
// date instead.
type chartState struct {
	states map[string]PositionState

	flowsBase     Money
	dividendsBase Money
	feesBase      Money

	// time-weighted chaining
	twr           decimal.Decimal
	boundaryValue Money

	// new capital since the previous sample
	sampleFlows     Money
	sampleFlowsBase Money
}

// BuildChart walks calendar days from max(start, inception) to end in
// increments of step, sampling holdings value and cumulative performance at
// each date. The boundary end date is always emitted, whatever the step
// alignment. With timeWeighted, sub-period growth factors are chained across
// every transaction-point boundary crossed, so cash-flow timing drops out of
// the reported percentage.
func (c *Calculator) BuildChart(ctx context.Context, start, end Date, step int, timeWeighted bool) (*ChartResult, error) {
	result := &ChartResult{Items: []HistoricalDataItem{}}
	if len(c.points) == 0 {
		return result, nil
	}
	if step < 1 {
		step = 1
	}
	inception := c.points[0].Date
	start = MaxDate(start, inception)
	if end.Before(start) {
		return result, nil
	}

	endPoint, _ := pointAt(c.points, end)
	items := symbolItems(endPoint)
	marketData := c.fetchMarketData(ctx, items, inception, end, false)
	for _, item := range items {
		if md := marketData[item.Symbol]; md != nil && md.err != nil {
			result.Errors = append(result.Errors, *md.err)
		}
	}

	walk := &chartState{
		states:          make(map[string]PositionState),
		flowsBase:       M(0, c.currency),
		dividendsBase:   M(0, c.currency),
		feesBase:        M(0, c.currency),
		twr:             decimal.NewFromInt(1),
		boundaryValue:   M(0, c.currency),
		sampleFlows:     M(0, c.currency),
		sampleFlowsBase: M(0, c.currency),
	}

	pointIdx := 0
	for day := start; ; day = day.Add(step) {
		if day.After(end) {
			day = end
		}
		for pointIdx < len(c.points) && !c.points[pointIdx].Date.After(day) {
			if err := c.consumePoint(walk, c.points[pointIdx], marketData, timeWeighted); err != nil {
				return nil, err
			}
			pointIdx++
		}
		item, err := c.sampleDay(walk, day, marketData, timeWeighted)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, item)
		if day.Equal(end) {
			break
		}
	}

	markAllTimeFlags(result)
	return result, nil
}

// consumePoint folds one transaction point into the running accumulators,
// converting every per-symbol delta at the point's own date.
func (c *Calculator) consumePoint(walk *chartState, point TransactionPoint, marketData map[string]*symbolMarketData, timeWeighted bool) error {
	if timeWeighted {
		// Value the old holdings at the boundary date before applying the
		// flows, then restart the chain from the post-flow value.
		preValue, err := c.holdingsValue(walk.states, point.Date, marketData)
		if err != nil {
			return err
		}
		if walk.boundaryValue.IsPositive() {
			walk.twr = walk.twr.Mul(preValue.Amount().Div(walk.boundaryValue.Amount()))
		}
		defer func() {
			postValue, verr := c.holdingsValue(point.Items, point.Date, marketData)
			if verr == nil {
				walk.boundaryValue = postValue
			}
		}()
	}

	for symbol, state := range point.Items {
		prev := walk.states[symbol]
		flowDelta := state.NetFlow.Sub(prev.NetFlow)
		dividendDelta := state.Dividends.Sub(prev.Dividends)
		feeDelta := state.Fees.Sub(prev.Fees)

		for _, delta := range []struct {
			amount Money
			into   *Money
		}{
			{flowDelta, &walk.flowsBase},
			{dividendDelta, &walk.dividendsBase},
			{feeDelta, &walk.feesBase},
		} {
			if delta.amount.IsZero() {
				continue
			}
			converted, err := c.rates.Convert(delta.amount, c.currency, point.Date)
			if err != nil {
				return err
			}
			*delta.into = delta.into.Add(converted)
		}
		if !flowDelta.IsZero() {
			walk.sampleFlows = walk.sampleFlows.Add(flowDelta)
			converted, err := c.rates.Convert(flowDelta, c.currency, point.Date)
			if err != nil {
				return err
			}
			walk.sampleFlowsBase = walk.sampleFlowsBase.Add(converted)
		}
		walk.states[symbol] = state
	}
	return nil
}

// sampleDay emits one series item for the given date and resets the
// since-last-sample accumulators.
func (c *Calculator) sampleDay(walk *chartState, day Date, marketData map[string]*symbolMarketData, timeWeighted bool) (HistoricalDataItem, error) {
	value, err := c.holdingsValue(walk.states, day, marketData)
	if err != nil {
		return HistoricalDataItem{}, err
	}

	netFlow := M(0, c.currency)
	investment := M(0, c.currency)
	dividends := M(0, c.currency)
	fees := M(0, c.currency)
	for _, state := range walk.states {
		for _, sum := range []struct {
			amount Money
			into   *Money
		}{
			{state.NetFlow, &netFlow},
			{state.Investment, &investment},
			{state.Dividends, &dividends},
			{state.Fees, &fees},
		} {
			if sum.amount.IsZero() {
				continue
			}
			converted, cerr := c.rates.Convert(sum.amount, c.currency, day)
			if cerr != nil {
				return HistoricalDataItem{}, cerr
			}
			*sum.into = sum.into.Add(converted)
		}
	}

	investmentBase := walk.flowsBase

	item := HistoricalDataItem{
		Date:                                   day,
		Value:                                  value,
		InvestmentValue:                        walk.sampleFlows,
		InvestmentValueWithCurrencyEffect:      walk.sampleFlowsBase,
		TotalInvestmentValue:                   investment,
		TotalInvestmentValueWithCurrencyEffect: investmentBase,
	}

	item.NetPerformance = value.Sub(netFlow).Add(dividends).Sub(fees)
	item.NetPerformanceInPercentage = ratioOrZero(item.NetPerformance, netFlow)
	item.NetPerformanceWithCurrencyEffect = value.Sub(walk.flowsBase).Add(walk.dividendsBase).Sub(walk.feesBase)
	item.NetPerformanceInPercentageWithCurrencyEffect = ratioOrZero(item.NetPerformanceWithCurrencyEffect, walk.flowsBase)

	if timeWeighted {
		factor := walk.twr
		if walk.boundaryValue.IsPositive() {
			factor = factor.Mul(value.Amount().Div(walk.boundaryValue.Amount()))
		}
		item.TimeWeightedPerformance = P(factor.Sub(decimal.NewFromInt(1)))
	}

	walk.sampleFlows = M(0, c.currency)
	walk.sampleFlowsBase = M(0, c.currency)
	return item, nil
}

// holdingsValue prices a holdings map on a date, in the base currency. The
// last known price is carried forward when the exact date is missing; symbols
// without any usable series contribute nothing.
func (c *Calculator) holdingsValue(states map[string]PositionState, day Date, marketData map[string]*symbolMarketData) (Money, error) {
	total := M(0, c.currency)
	for symbol, state := range states {
		if state.Quantity.IsZero() {
			continue
		}
		md := marketData[symbol]
		if md == nil || md.err != nil {
			continue
		}
		price, ok := md.series.At(day)
		if !ok {
			continue
		}
		converted, err := c.rates.Convert(price.Mul(state.Quantity), c.currency, day)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

func ratioOrZero(performance, denominator Money) Percent {
	if !denominator.IsPositive() {
		return Percent{}
	}
	return performance.Ratio(denominator)
}

// markAllTimeFlags scans the emitted values and flags whether the series ends
// on its maximum or minimum.
func markAllTimeFlags(result *ChartResult) {
	if len(result.Items) == 0 {
		return
	}
	last := result.Items[len(result.Items)-1].Value
	high, low := true, true
	for _, item := range result.Items {
		if item.Value.GreaterThan(last) {
			high = false
		}
		if item.Value.LessThan(last) {
			low = false
		}
	}
	result.IsAllTimeHigh = high
	result.IsAllTimeLow = low
}
