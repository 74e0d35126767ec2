package perfcalc

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// DefaultQuoteTimeout bounds the quote fan-out of one snapshot. Symbols that
// have not answered in time degrade to soft per-symbol errors.
const DefaultQuoteTimeout = 15 * time.Second

// Options configures a Calculator.
type Options struct {
	// Currency is the base (reporting) currency. Required.
	Currency string
	// Convention selects the percentage denominator. Defaults to ROI.
	Convention Convention
	// Orders is the activity ledger. It is cloned and canonically sorted.
	Orders []Order
	// Quotes supplies market data. May be nil when snapshots are computed
	// with fetchQuotes disabled.
	Quotes QuoteProvider
	// Rates converts between currencies. Defaults to an identity converter
	// that only accepts amounts already in the base currency.
	Rates RateConverter
	// QuoteTimeout bounds the quote fan-out. Defaults to DefaultQuoteTimeout.
	QuoteTimeout time.Duration
	// Logger receives per-symbol soft errors and fan-out diagnostics.
	// The zero value discards everything.
	Logger zerolog.Logger
}

// Calculator owns one order list and its derived transaction points for the
// lifetime of a calculation. Instances are cheap and must not be shared
// across concurrent calculations.
type Calculator struct {
	currency     string
	convention   Convention
	orders       []Order
	quotes       QuoteProvider
	rates        RateConverter
	points       []TransactionPoint
	buildErrors  []SymbolError
	quoteTimeout time.Duration
	log          zerolog.Logger
}

// New validates the orders, folds them into transaction points, and returns a
// ready calculator. Any invalid order is a hard failure: no calculator is
// returned, since no partial result would be trustworthy.
func New(opts Options) (*Calculator, error) {
	if opts.Currency == "" {
		return nil, fmt.Errorf("base currency is required")
	}
	convention := opts.Convention
	if convention == "" {
		convention = ROI
	}
	for _, order := range opts.Orders {
		if err := order.Validate(); err != nil {
			return nil, err
		}
	}

	orders := slices.Clone(opts.Orders)
	sortOrders(orders)

	rates := opts.Rates
	if rates == nil {
		rates = identityConverter{}
	}
	timeout := opts.QuoteTimeout
	if timeout <= 0 {
		timeout = DefaultQuoteTimeout
	}

	points, softErrors := buildTransactionPoints(orders)

	c := &Calculator{
		currency:     opts.Currency,
		convention:   convention,
		orders:       orders,
		quotes:       opts.Quotes,
		rates:        rates,
		points:       points,
		buildErrors:  softErrors,
		quoteTimeout: timeout,
		log:          opts.Logger.With().Str("component", "calculator").Logger(),
	}
	for _, softErr := range softErrors {
		c.log.Warn().Str("symbol", softErr.Symbol).Msg(softErr.Reason)
	}
	return c, nil
}

// Currency returns the base currency of the calculator.
func (c *Calculator) Currency() string { return c.currency }

// TransactionPoints exposes the derived per-date holding snapshots.
func (c *Calculator) TransactionPoints() []TransactionPoint { return c.points }

// InceptionDate returns the date of the first transaction point, and false
// when the ledger is empty.
func (c *Calculator) InceptionDate() (Date, bool) {
	if len(c.points) == 0 {
		return Date{}, false
	}
	return c.points[0].Date, true
}

// symbolItems lists all symbols present at a transaction point, sorted for
// deterministic iteration.
func symbolItems(point TransactionPoint) []QuoteItem {
	symbols := make([]string, 0, len(point.Items))
	for symbol := range point.Items {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	items := make([]QuoteItem, 0, len(symbols))
	for _, symbol := range symbols {
		items = append(items, QuoteItem{Symbol: symbol, DataSource: point.Items[symbol].DataSource})
	}
	return items
}
