package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/openfolio/perfcalc"
)

// HistoryMarkdown renders the day-by-day detail of one holding as a markdown
// table, followed by the extreme quoted prices.
func HistoryMarkdown(h *perfcalc.SymbolHistory) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("History of %s", h.Symbol))

	table := md.TableSet{
		Header: []string{"Date", "Quantity", "Avg Price", "Market Price"},
	}
	for _, item := range h.Items {
		table.Rows = append(table.Rows, []string{
			item.Date.String(),
			item.Quantity.String(),
			item.AveragePrice.String(),
			item.MarketPrice.String(),
		})
	}
	doc.Table(table)

	if !h.MaxPrice.IsZero() || !h.MinPrice.IsZero() {
		doc.PlainText(fmt.Sprintf("Price range: %s to %s", h.MinPrice, h.MaxPrice))
	}

	if len(h.Errors) > 0 {
		doc.H2("Warnings")
		for _, e := range h.Errors {
			doc.BulletList(e.Error())
		}
	}

	return doc.String()
}
