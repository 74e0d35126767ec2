package perfcalc

import (
	"fmt"
	"slices"
)

// PositionState is the cumulative state of a single symbol immediately after
// all orders on or before a transaction point's date. Amounts are in the
// position's own currency.
type PositionState struct {
	Symbol           string
	Currency         string
	DataSource       string
	Quantity         Quantity
	Investment       Money // cost basis, average-cost method
	NetFlow          Money // buys minus sell proceeds
	Fees             Money
	Dividends        Money
	AveragePrice     Money
	FirstBuyDate     Date
	TransactionCount int
	Tags             []string
}

// TransactionPoint is an immutable snapshot of cumulative holdings as of a
// date. Fees, interest and liabilities that are not attributable to a symbol
// accumulate at the portfolio level.
type TransactionPoint struct {
	Date        Date
	Items       map[string]PositionState
	Fees        Money // portfolio-level FEE activities
	Interest    Money
	Liabilities Money
}

// buildTransactionPoints folds orders, pre-sorted ascending by date, into a
// strictly date-increasing sequence of transaction points. Same-day orders
// merge into a single point. A SELL exceeding current holdings clamps the
// position to zero and records a soft error instead of failing the fold.
//
// Zero-quantity symbols stay present in later points so their history remains
// queryable.
func buildTransactionPoints(orders []Order) ([]TransactionPoint, []SymbolError) {
	var points []TransactionPoint
	var softErrors []SymbolError

	items := make(map[string]PositionState)
	var fees, interest, liabilities Money

	for _, order := range orders {
		state, ok := items[order.Symbol]
		if !ok && order.Symbol != "" {
			state = PositionState{
				Symbol:     order.Symbol,
				Currency:   order.Currency,
				DataSource: order.DataSource,
			}
		}

		switch order.Type {
		case OrderBuy, OrderStake, OrderItem:
			state.Quantity = state.Quantity.Add(order.Quantity)
			state.Investment = state.Investment.Add(order.Value())
			state.NetFlow = state.NetFlow.Add(order.Value())
			state.Fees = state.Fees.Add(order.Fee)
			state.AveragePrice = state.Investment.Div(state.Quantity)
			if state.FirstBuyDate.IsZero() {
				state.FirstBuyDate = order.Date
			} else {
				state.FirstBuyDate = MinDate(state.FirstBuyDate, order.Date)
			}
			state.TransactionCount++
			state.Tags = mergeTags(state.Tags, order.Tags)

		case OrderSell:
			sold := order.Quantity
			if sold.GreaterThan(state.Quantity) {
				softErrors = append(softErrors, newSymbolError(order.Symbol, order.DataSource,
					fmt.Sprintf("sell of %s on %s exceeds held quantity %s, clamped", sold, order.Date, state.Quantity), nil))
				sold = state.Quantity
			}
			remaining := state.Quantity.Sub(sold)
			// Scale the cost basis so the weighted-average cost of the
			// remaining shares is preserved.
			state.Investment = state.Investment.Mul(remaining.Div(state.Quantity))
			state.NetFlow = state.NetFlow.Sub(order.UnitPrice.Mul(sold))
			state.Quantity = remaining
			state.Fees = state.Fees.Add(order.Fee)
			state.AveragePrice = state.Investment.Div(state.Quantity)
			state.TransactionCount++
			state.Tags = mergeTags(state.Tags, order.Tags)

		case OrderDividend:
			state.Dividends = state.Dividends.Add(order.Value())
			state.Fees = state.Fees.Add(order.Fee)
			state.TransactionCount++
			state.Tags = mergeTags(state.Tags, order.Tags)

		case OrderFee:
			fees = fees.Add(order.Value().Add(order.Fee))
		case OrderInterest:
			interest = interest.Add(order.Value())
			fees = fees.Add(order.Fee)
		case OrderLiability:
			liabilities = liabilities.Add(order.Value())
			fees = fees.Add(order.Fee)
		}

		// FEE/INTEREST/LIABILITY accumulate at the portfolio level even when
		// tagged with a symbol; they never open a position.
		switch order.Type {
		case OrderBuy, OrderStake, OrderItem, OrderSell, OrderDividend:
			if order.Symbol != "" {
				items[order.Symbol] = state
			}
		}

		if n := len(points); n > 0 && points[n-1].Date == order.Date {
			points[n-1] = newTransactionPoint(order.Date, items, fees, interest, liabilities)
		} else {
			points = append(points, newTransactionPoint(order.Date, items, fees, interest, liabilities))
		}
	}

	return points, softErrors
}

// newTransactionPoint snapshots the accumulator into an immutable point.
func newTransactionPoint(on Date, items map[string]PositionState, fees, interest, liabilities Money) TransactionPoint {
	copied := make(map[string]PositionState, len(items))
	for symbol, state := range items {
		state.Tags = slices.Clone(state.Tags)
		copied[symbol] = state
	}
	return TransactionPoint{
		Date:        on,
		Items:       copied,
		Fees:        fees,
		Interest:    interest,
		Liabilities: liabilities,
	}
}

// pointAt resolves the last transaction point with date on or before the
// boundary. It returns false when the boundary precedes all points.
func pointAt(points []TransactionPoint, boundary Date) (TransactionPoint, bool) {
	var found TransactionPoint
	ok := false
	for _, p := range points {
		if p.Date.After(boundary) {
			break
		}
		found, ok = p, true
	}
	return found, ok
}

func mergeTags(existing, added []string) []string {
	for _, tag := range added {
		if !slices.Contains(existing, tag) {
			existing = append(existing, tag)
		}
	}
	return existing
}
