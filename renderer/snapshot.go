// Package renderer turns computed portfolio results into markdown reports.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/openfolio/perfcalc"
)

// SnapshotMarkdown renders a position snapshot as a markdown report: one row
// per position, a totals section, and the soft errors when any occurred.
func SnapshotMarkdown(s *perfcalc.CurrentPositions, on perfcalc.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Snapshot on %s", on))

	table := md.TableSet{
		Header: []string{"Symbol", "Quantity", "Avg Price", "Value", "Net Perf", "Net Perf %"},
	}
	for _, p := range s.Positions {
		if p.MarketDataMissing {
			table.Rows = append(table.Rows, []string{
				p.Symbol, p.Quantity.String(), p.AveragePrice.String(), "n/a", "n/a", "n/a",
			})
			continue
		}
		table.Rows = append(table.Rows, []string{
			p.Symbol,
			p.Quantity.String(),
			p.AveragePrice.String(),
			p.MarketValueInBaseCurrency.String(),
			p.NetPerformanceWithCurrencyEffect.SignedString(),
			p.NetPerformancePercentageWithCurrencyEffect.SignedString(),
		})
	}
	doc.Table(table)

	doc.H2("Totals")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Amount"},
		Rows: [][]string{
			{"Current Value", s.CurrentValue.String()},
			{"Total Investment", s.TotalInvestment.String()},
			{"Net Performance", s.NetPerformanceWithCurrencyEffect.SignedString()},
			{"Net Performance %", s.NetPerformancePercentageWithCurrencyEffect.SignedString()},
			{"Fees", s.TotalFeesWithCurrencyEffect.String()},
			{"Interest", s.TotalInterestWithCurrencyEffect.String()},
			{"Liabilities", s.TotalLiabilitiesWithCurrencyEffect.String()},
		},
	})

	if s.HasErrors {
		doc.H2("Warnings")
		for _, e := range s.Errors {
			doc.BulletList(e.Error())
		}
	}

	return doc.String()
}

// SymbolMarkdown renders the detail report of a single position, including
// the rolling horizon performance.
func SymbolMarkdown(p perfcalc.TimelinePosition) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s (%s)", p.Symbol, p.Currency))

	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Quantity", p.Quantity.String()},
			{"Average Price", p.AveragePrice.String()},
			{"Investment", p.Investment.String()},
			{"Market Price", p.MarketPrice.String()},
			{"Market Value", p.MarketValue.String()},
			{"Dividends", p.Dividend.String()},
			{"Fees", p.Fee.String()},
			{"First Buy", p.FirstBuyDate.String()},
			{"Transactions", fmt.Sprintf("%d", p.TransactionCount)},
			{"Net Performance", p.NetPerformanceWithCurrencyEffect.SignedString()},
			{"Net Performance %", p.NetPerformancePercentageWithCurrencyEffect.SignedString()},
		},
	})

	if len(p.NetPerformanceWithCurrencyEffectMap) > 0 {
		doc.H2("Performance by Horizon")
		table := md.TableSet{Header: []string{"Horizon", "Net Perf", "Net Perf %"}}
		for _, dr := range perfcalc.SnapshotRanges {
			amount, ok := p.NetPerformanceWithCurrencyEffectMap[dr]
			if !ok {
				continue
			}
			table.Rows = append(table.Rows, []string{
				string(dr),
				amount.SignedString(),
				p.NetPerformancePercentageWithCurrencyEffectMap[dr].SignedString(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
