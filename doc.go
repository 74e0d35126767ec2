// Package perfcalc computes portfolio positions and performance from a
// chronological ledger of buy/sell/dividend/fee/interest/stake/liability
// activities, possibly denominated in different currencies.
//
// The engine folds ordered activities into a compact sequence of transaction
// points (cumulative per-symbol holdings keyed by date), replays them to
// produce point-in-time position snapshots under several return conventions
// (ROI, ROAI, TWR, MWR), and builds decimated daily time series suitable for
// charting.
//
// Quotes and exchange rates are external collaborators, supplied through the
// QuoteProvider and RateConverter interfaces. The engine performs no network
// or file I/O of its own.
package perfcalc
