package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/openfolio/perfcalc"
)

// ChartMarkdown renders a chart series as a markdown table, one row per
// sampled date.
func ChartMarkdown(c *perfcalc.ChartResult, title string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)

	switch {
	case c.IsAllTimeHigh:
		doc.PlainText("The portfolio ends this period at its all-time high.")
	case c.IsAllTimeLow:
		doc.PlainText("The portfolio ends this period at its all-time low.")
	}

	table := md.TableSet{
		Header: []string{"Date", "Value", "Invested", "Net Perf", "Net Perf %"},
	}
	for _, item := range c.Items {
		table.Rows = append(table.Rows, []string{
			item.Date.String(),
			item.Value.String(),
			item.TotalInvestmentValue.String(),
			item.NetPerformanceWithCurrencyEffect.SignedString(),
			item.NetPerformanceInPercentageWithCurrencyEffect.SignedString(),
		})
	}
	doc.Table(table)

	if len(c.Errors) > 0 {
		doc.H2("Warnings")
		for _, e := range c.Errors {
			doc.BulletList(e.Error())
		}
	}

	return doc.String()
}

// AnnualizedLine formats the annualized rate of a period, for embedding under
// a snapshot or chart report.
func AnnualizedLine(daysInMarket int, netPerformancePercentage perfcalc.Percent) string {
	annualized := perfcalc.Annualize(daysInMarket, netPerformancePercentage)
	return fmt.Sprintf("Annualized: %s over %d days", annualized.SignedString(), daysInMarket)
}
