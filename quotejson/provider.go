// Package quotejson adapts JSON quote feeds into the engine's QuoteProvider.
// Feeds differ in shape, so the fields are addressed by JSONPath expressions
// instead of a fixed schema: point the mapping at the right spots and any
// per-symbol JSON document becomes a usable quote source.
package quotejson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/openfolio/perfcalc"
)

// Mapping addresses the quote fields inside a feed document. Quote, Currency
// and Historical are evaluated against the document root; Date and Close
// against each element of the Historical array.
type Mapping struct {
	Quote       string `yaml:"quote"`
	MarketState string `yaml:"marketState"`
	Currency    string `yaml:"currency"`
	Historical  string `yaml:"historical"`
	Date        string `yaml:"date"`
	Close       string `yaml:"close"`
}

// DefaultMapping matches the flat feed layout the pfcalc tool writes:
//
//	{"currency": "USD", "quote": {"price": 331.83, "marketState": "open"},
//	 "historical": [{"date": "2023-07-10", "close": 331.83}, ...]}
func DefaultMapping() Mapping {
	return Mapping{
		Quote:       "$.quote.price",
		MarketState: "$.quote.marketState",
		Currency:    "$.currency",
		Historical:  "$.historical",
		Date:        "$.date",
		Close:       "$.close",
	}
}

// Provider reads one JSON document per symbol from a directory. A missing or
// unreadable document is not an error here: the symbol is simply absent from
// the returned maps, which the engine treats as data unavailable.
type Provider struct {
	dir     string
	mapping Mapping
	log     zerolog.Logger
}

func NewProvider(dir string, mapping Mapping, logger zerolog.Logger) *Provider {
	return &Provider{
		dir:     dir,
		mapping: mapping,
		log:     logger.With().Str("component", "quotejson").Logger(),
	}
}

func (p *Provider) load(symbol string) (any, error) {
	raw, err := os.ReadFile(filepath.Join(p.dir, symbol+".json"))
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("feed for %s is not valid JSON: %w", symbol, err)
	}
	return payload, nil
}

// Quotes implements perfcalc.QuoteProvider.
func (p *Provider) Quotes(ctx context.Context, items []perfcalc.QuoteItem) (map[string]perfcalc.Quote, error) {
	result := make(map[string]perfcalc.Quote, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := p.load(item.Symbol)
		if err != nil {
			p.log.Warn().Str("symbol", item.Symbol).Err(err).Msg("no quote document")
			continue
		}
		price, err := p.amountAt(p.mapping.Quote, payload, p.currencyOf(payload))
		if err != nil {
			p.log.Warn().Str("symbol", item.Symbol).Err(err).Msg("no current price in document")
			continue
		}
		quote := perfcalc.Quote{MarketPrice: price}
		if state, err := stringAt(p.mapping.MarketState, payload); err == nil {
			quote.MarketState = state
		}
		result[item.Symbol] = quote
	}
	return result, nil
}

// Historical implements perfcalc.QuoteProvider, filtering each series down to
// the requested inclusive window.
func (p *Provider) Historical(ctx context.Context, items []perfcalc.QuoteItem, from, to perfcalc.Date) (map[string]map[perfcalc.Date]perfcalc.Money, error) {
	result := make(map[string]map[perfcalc.Date]perfcalc.Money, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := p.load(item.Symbol)
		if err != nil {
			p.log.Warn().Str("symbol", item.Symbol).Err(err).Msg("no quote document")
			continue
		}
		rows, err := jsonpath.Get(p.mapping.Historical, payload)
		if err != nil {
			p.log.Warn().Str("symbol", item.Symbol).Err(err).Msg("no historical series in document")
			continue
		}
		list, ok := rows.([]any)
		if !ok {
			p.log.Warn().Str("symbol", item.Symbol).Msgf("historical path selects %T, want an array", rows)
			continue
		}

		currency := p.currencyOf(payload)
		series := make(map[perfcalc.Date]perfcalc.Money, len(list))
		for _, row := range list {
			day, err := p.rowDate(row)
			if err != nil {
				p.log.Debug().Str("symbol", item.Symbol).Err(err).Msg("skipping malformed row")
				continue
			}
			if day.Before(from) || day.After(to) {
				continue
			}
			price, err := p.amountAt(p.mapping.Close, row, currency)
			if err != nil {
				p.log.Debug().Str("symbol", item.Symbol).Err(err).Msg("skipping row without close")
				continue
			}
			series[day] = price
		}
		result[item.Symbol] = series
	}
	return result, nil
}

func (p *Provider) currencyOf(payload any) string {
	currency, err := stringAt(p.mapping.Currency, payload)
	if err != nil {
		return ""
	}
	return currency
}

func (p *Provider) rowDate(row any) (perfcalc.Date, error) {
	str, err := stringAt(p.mapping.Date, row)
	if err != nil {
		return perfcalc.Date{}, err
	}
	return perfcalc.ParseDate(str)
}

// amountAt evaluates a path to a monetary amount. Feeds disagree on whether
// prices are numbers or strings, so both are accepted.
func (p *Provider) amountAt(path string, payload any, currency string) (perfcalc.Money, error) {
	value, err := jsonpath.Get(path, payload)
	if err != nil {
		return perfcalc.Money{}, err
	}
	switch v := value.(type) {
	case float64:
		return perfcalc.M(decimal.NewFromFloat(v), currency), nil
	case string:
		dec, err := decimal.NewFromString(v)
		if err != nil {
			return perfcalc.Money{}, fmt.Errorf("%s is not a price: %w", strconv.Quote(v), err)
		}
		return perfcalc.M(dec, currency), nil
	default:
		return perfcalc.Money{}, fmt.Errorf("path %s selects %T, want a number", path, value)
	}
}

func stringAt(path string, payload any) (string, error) {
	value, err := jsonpath.Get(path, payload)
	if err != nil {
		return "", err
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("path %s selects %T, want a string", path, value)
	}
	return str, nil
}

var _ perfcalc.QuoteProvider = (*Provider)(nil)
