package perfcalc

import "context"

// QuoteItem identifies a symbol at a data source.
type QuoteItem struct {
	Symbol     string `json:"symbol"`
	DataSource string `json:"dataSource,omitempty"`
}

// Quote is the current market price of a symbol, in the symbol's currency.
type Quote struct {
	MarketPrice Money  `json:"marketPrice"`
	MarketState string `json:"marketState,omitempty"`
}

// QuoteProvider supplies current and historical market prices. Implementations
// own retries and caching; the engine treats a missing entry in the returned
// map as data unavailable for that symbol.
type QuoteProvider interface {
	// Quotes returns the current quote per symbol.
	Quotes(ctx context.Context, items []QuoteItem) (map[string]Quote, error)
	// Historical returns the daily price series per symbol for the inclusive
	// date window. Days without a price may be absent; the engine carries the
	// last known price forward.
	Historical(ctx context.Context, items []QuoteItem, from, to Date) (map[string]map[Date]Money, error)
}

// RateConverter converts an amount into a target currency using the exchange
// rate in effect on a given date.
type RateConverter interface {
	Convert(amount Money, target string, on Date) (Money, error)
}

// identityConverter is used when no converter is supplied: it only accepts
// amounts already in the target currency.
type identityConverter struct{}

func (identityConverter) Convert(amount Money, target string, _ Date) (Money, error) {
	if amount.Currency() != "" && amount.Currency() != target {
		return Money{}, ErrDataUnavailable
	}
	return M(amount.Amount(), target), nil
}
