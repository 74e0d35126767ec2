package perfcalc

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder marks a hard failure: an order carries a negative or
// otherwise unusable quantity, price, or fee. No partial result is produced.
var ErrInvalidOrder = errors.New("invalid order")

// ErrDataUnavailable marks a missing quote or historical series for a symbol.
// It is recorded per symbol and never aborts the whole calculation.
var ErrDataUnavailable = errors.New("market data unavailable")

// SymbolError records a recoverable, per-symbol failure encountered during a
// calculation. The affected position is still emitted, with its performance
// fields left undefined.
type SymbolError struct {
	Symbol     string `json:"symbol"`
	DataSource string `json:"dataSource,omitempty"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

func (e SymbolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
}

func (e SymbolError) Unwrap() error { return e.Err }

func newSymbolError(symbol, dataSource, reason string, err error) SymbolError {
	return SymbolError{Symbol: symbol, DataSource: dataSource, Reason: reason, Err: err}
}
