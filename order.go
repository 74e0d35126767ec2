package perfcalc

import (
	"fmt"
	"sort"
)

// OrderType identifies the kind of activity recorded in the ledger.
type OrderType string

const (
	OrderBuy       OrderType = "BUY"
	OrderSell      OrderType = "SELL"
	OrderDividend  OrderType = "DIVIDEND"
	OrderFee       OrderType = "FEE"
	OrderInterest  OrderType = "INTEREST"
	OrderItem      OrderType = "ITEM"
	OrderLiability OrderType = "LIABILITY"
	OrderStake     OrderType = "STAKE"
)

var orderTypes = map[OrderType]struct{}{
	OrderBuy: {}, OrderSell: {}, OrderDividend: {}, OrderFee: {},
	OrderInterest: {}, OrderItem: {}, OrderLiability: {}, OrderStake: {},
}

// Order is a single immutable ledger activity. Quantity, unit price and fee
// are denominated in the order's currency.
type Order struct {
	Date       Date      `json:"date"`
	Symbol     string    `json:"symbol"`
	DataSource string    `json:"dataSource,omitempty"`
	Currency   string    `json:"currency"`
	Type       OrderType `json:"type"`
	Quantity   Quantity  `json:"quantity"`
	UnitPrice  Money     `json:"unitPrice"`
	Fee        Money     `json:"fee"`
	Tags       []string  `json:"tags,omitempty"`
}

// Value is the total amount of the order, quantity times unit price.
func (o Order) Value() Money { return o.UnitPrice.Mul(o.Quantity) }

// Validate checks an order for hard errors. A negative quantity, unit price,
// or fee poisons the whole calculation, so validation failure aborts it.
func (o Order) Validate() error {
	if _, ok := orderTypes[o.Type]; !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidOrder, o.Type)
	}
	if o.Date.IsZero() {
		return fmt.Errorf("%w: %s order on %s has no date", ErrInvalidOrder, o.Type, o.Symbol)
	}
	if o.Quantity.IsNegative() {
		return fmt.Errorf("%w: %s order on %s has negative quantity %s", ErrInvalidOrder, o.Type, o.Symbol, o.Quantity)
	}
	if o.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %s order on %s has negative unit price %s", ErrInvalidOrder, o.Type, o.Symbol, o.UnitPrice)
	}
	if o.Fee.IsNegative() {
		return fmt.Errorf("%w: %s order on %s has negative fee %s", ErrInvalidOrder, o.Type, o.Symbol, o.Fee)
	}
	return nil
}

// sortOrders puts orders in canonical sequence: ascending date, with a stable
// tie-break preserving original insertion order for same-day activities.
func sortOrders(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.Before(orders[j].Date)
	})
}
