package perfcalc

// symbolWindow captures one symbol's activity over an evaluation window: the
// state carried from strictly before the window (the baseline), the state at
// its end, and the dated flows in between. The baseline is valued at the
// price in effect on the window's first day.
type symbolWindow struct {
	window    Range
	baseline  PositionState
	end       PositionState
	flows     []Flow // capital flows: buys positive, sell proceeds negative
	dividends []Flow
	fees      []Flow
	steps     []FlowStep
}

// symbolWindow walks the transaction points once, splitting them at `start`:
// everything strictly before feeds the baseline, everything in [start, end]
// becomes dated deltas against the previous point.
func (c *Calculator) symbolWindow(symbol string, start, end Date) symbolWindow {
	w := symbolWindow{window: NewRange(start, end)}

	var prev PositionState
	segStart := start
	for _, point := range c.points {
		if point.Date.After(end) {
			break
		}
		state := point.Items[symbol]
		if point.Date.Before(start) {
			w.baseline = state
			prev = state
			continue
		}

		flowDelta := state.NetFlow.Sub(prev.NetFlow)
		dividendDelta := state.Dividends.Sub(prev.Dividends)
		feeDelta := state.Fees.Sub(prev.Fees)
		if flowDelta.IsZero() && dividendDelta.IsZero() && feeDelta.IsZero() &&
			state.Quantity.Equal(prev.Quantity) {
			continue
		}

		if point.Date.After(segStart) {
			w.steps = append(w.steps, FlowStep{
				From:       segStart,
				To:         point.Date.Add(-1),
				Investment: prev.Investment,
				Quantity:   prev.Quantity,
			})
			segStart = point.Date
		}
		appendFlow(&w.flows, point.Date, flowDelta)
		appendFlow(&w.dividends, point.Date, dividendDelta)
		appendFlow(&w.fees, point.Date, feeDelta)
		prev = state
	}

	w.end = prev
	w.steps = append(w.steps, FlowStep{
		From:       segStart,
		To:         end,
		Investment: prev.Investment,
		Quantity:   prev.Quantity,
	})
	return w
}

func appendFlow(flows *[]Flow, on Date, amount Money) {
	if amount.IsZero() {
		return
	}
	*flows = append(*flows, Flow{On: on, Amount: amount})
}

func sumFlows(flows []Flow, currency string) Money {
	total := M(0, currency)
	for _, flow := range flows {
		total = total.Add(flow.Amount)
	}
	return total
}

// schedule builds the FlowSchedule backing the convention denominators. The
// starting capital is the baseline's market value on the window's first day.
func (w symbolWindow) schedule(startInvestment Money) FlowSchedule {
	s := FlowSchedule{
		Window:          w.window,
		Steps:           w.steps,
		Flows:           w.flows,
		StartInvestment: startInvestment,
		EndInvestment:   startInvestment,
	}
	for _, flow := range w.flows {
		s.EndInvestment = s.EndInvestment.Add(flow.Amount)
	}
	return s
}

// windowPerformance holds all derived performance amounts of one symbol over
// one window. Plain amounts are in the position currency; the Base variants
// are in the calculator's base currency with each flow converted at its own
// date, so currency moves show up in the difference.
type windowPerformance struct {
	startValue Money
	endValue   Money

	endValueBase   Money
	investmentBase Money
	dividendsBase  Money
	feesBase       Money

	gross     Money
	net       Money
	grossBase Money
	netBase   Money

	grossPercentage     Percent
	netPercentage       Percent
	grossBasePercentage Percent
	netBasePercentage   Percent

	denominator     Money
	denominatorBase Money
}

func (c *Calculator) windowPerformance(w symbolWindow, md *symbolMarketData, marketPrice Money) (*windowPerformance, error) {
	ccy := marketPrice.Currency()
	perf := &windowPerformance{}

	perf.startValue = M(0, ccy)
	if !w.baseline.Quantity.IsZero() {
		price, ok := md.series.At(w.window.From)
		if !ok {
			// No quote on the window's first day: fall back to cost.
			price = w.baseline.AveragePrice
		}
		perf.startValue = price.Mul(w.baseline.Quantity)
	}
	perf.endValue = marketPrice.Mul(w.end.Quantity)

	flowSum := sumFlows(w.flows, ccy)
	dividendSum := sumFlows(w.dividends, ccy)
	feeSum := sumFlows(w.fees, ccy)

	perf.gross = perf.endValue.Sub(perf.startValue).Sub(flowSum).Add(dividendSum)
	perf.net = perf.gross.Sub(feeSum)

	schedule := w.schedule(perf.startValue)
	perf.denominator = c.convention.Denominator(schedule)
	perf.grossPercentage = c.convention.percentage(perf.gross, schedule)
	perf.netPercentage = c.convention.percentage(perf.net, schedule)

	startBase, err := c.rates.Convert(perf.startValue, c.currency, w.window.From)
	if err != nil {
		return nil, err
	}
	endBase, err := c.rates.Convert(perf.endValue, c.currency, w.window.To)
	if err != nil {
		return nil, err
	}
	flowsBase, err := c.convertFlows(w.flows)
	if err != nil {
		return nil, err
	}
	dividendsBase, err := c.convertFlows(w.dividends)
	if err != nil {
		return nil, err
	}
	feesBase, err := c.convertFlows(w.fees)
	if err != nil {
		return nil, err
	}

	perf.endValueBase = endBase
	perf.dividendsBase = sumFlows(dividendsBase, c.currency)
	perf.feesBase = sumFlows(feesBase, c.currency)
	perf.grossBase = endBase.Sub(startBase).Sub(sumFlows(flowsBase, c.currency)).Add(perf.dividendsBase)
	perf.netBase = perf.grossBase.Sub(perf.feesBase)

	scheduleBase, err := c.convertSchedule(w, flowsBase, startBase)
	if err != nil {
		return nil, err
	}
	perf.investmentBase = scheduleBase.EndInvestment
	perf.denominatorBase = c.convention.Denominator(scheduleBase)
	perf.grossBasePercentage = c.convention.percentage(perf.grossBase, scheduleBase)
	perf.netBasePercentage = c.convention.percentage(perf.netBase, scheduleBase)

	return perf, nil
}

// convertFlows converts every flow to the base currency at its own date.
func (c *Calculator) convertFlows(flows []Flow) ([]Flow, error) {
	if len(flows) == 0 {
		return nil, nil
	}
	converted := make([]Flow, 0, len(flows))
	for _, flow := range flows {
		amount, err := c.rates.Convert(flow.Amount, c.currency, flow.On)
		if err != nil {
			return nil, err
		}
		converted = append(converted, Flow{On: flow.On, Amount: amount})
	}
	return converted, nil
}

// convertSchedule rebuilds a FlowSchedule in the base currency: flows at their
// own dates, step capital at each step's first day.
func (c *Calculator) convertSchedule(w symbolWindow, flowsBase []Flow, startBase Money) (FlowSchedule, error) {
	s := FlowSchedule{
		Window:          w.window,
		Flows:           flowsBase,
		StartInvestment: startBase,
		EndInvestment:   startBase,
	}
	for _, flow := range flowsBase {
		s.EndInvestment = s.EndInvestment.Add(flow.Amount)
	}
	s.Steps = make([]FlowStep, 0, len(w.steps))
	for _, step := range w.steps {
		investment, err := c.rates.Convert(step.Investment, c.currency, step.From)
		if err != nil {
			return FlowSchedule{}, err
		}
		s.Steps = append(s.Steps, FlowStep{
			From:       step.From,
			To:         step.To,
			Investment: investment,
			Quantity:   step.Quantity,
		})
	}
	return s, nil
}
