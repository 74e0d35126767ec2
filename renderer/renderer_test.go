package renderer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/openfolio/perfcalc"
)

type stubQuotes struct {
	quotes map[string]perfcalc.Quote
	series map[string]map[perfcalc.Date]perfcalc.Money
}

func (s stubQuotes) Quotes(_ context.Context, items []perfcalc.QuoteItem) (map[string]perfcalc.Quote, error) {
	return s.quotes, nil
}

func (s stubQuotes) Historical(_ context.Context, items []perfcalc.QuoteItem, from, to perfcalc.Date) (map[string]map[perfcalc.Date]perfcalc.Money, error) {
	return s.series, nil
}

func fixtureSnapshot(t *testing.T) (*perfcalc.CurrentPositions, perfcalc.Date) {
	t.Helper()
	c, err := perfcalc.New(perfcalc.Options{
		Currency: "USD",
		Orders: []perfcalc.Order{
			{
				Date:      perfcalc.MustParseDate("2021-09-16"),
				Symbol:    "MSFT",
				Currency:  "USD",
				Type:      perfcalc.OrderBuy,
				Quantity:  perfcalc.Q(1),
				UnitPrice: perfcalc.M(298.58, "USD"),
				Fee:       perfcalc.M(19, "USD"),
			},
		},
		Quotes: stubQuotes{
			quotes: map[string]perfcalc.Quote{"MSFT": {MarketPrice: perfcalc.M(331.83, "USD")}},
			series: map[string]map[perfcalc.Date]perfcalc.Money{
				"MSFT": {perfcalc.MustParseDate("2021-09-16"): perfcalc.M(298.58, "USD")},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	end := perfcalc.MustParseDate("2023-07-10")
	result, err := c.ComputePositions(context.Background(), perfcalc.MustParseDate("2021-09-16"), end, true)
	if err != nil {
		t.Fatal(err)
	}
	return result, end
}

// renderHTML converts markdown to HTML, failing the test when the document
// does not parse. Pipe tables need the table extension enabled.
func renderHTML(t *testing.T, source string) string {
	t.Helper()
	var out bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := gm.Convert([]byte(source), &out); err != nil {
		t.Fatalf("markdown does not convert: %v", err)
	}
	return out.String()
}

func TestSnapshotMarkdown(t *testing.T) {
	result, end := fixtureSnapshot(t)
	got := SnapshotMarkdown(result, end)

	html := renderHTML(t, got)
	for _, want := range []string{"MSFT", "Portfolio Snapshot on 2023-07-10", "Totals"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown misses %q:\n%s", want, got)
		}
	}
	if !strings.Contains(html, "<table>") {
		t.Error("rendered HTML has no table")
	}
}

func TestSymbolMarkdown(t *testing.T) {
	result, _ := fixtureSnapshot(t)
	got := SymbolMarkdown(result.Positions[0])

	html := renderHTML(t, got)
	for _, want := range []string{"MSFT", "Average Price", "Performance by Horizon"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown misses %q:\n%s", want, got)
		}
	}
	if !strings.Contains(html, "<table>") {
		t.Error("rendered HTML has no table")
	}
}

func TestChartMarkdown(t *testing.T) {
	end := perfcalc.MustParseDate("2023-07-10")
	c, err := perfcalc.New(perfcalc.Options{
		Currency: "USD",
		Orders: []perfcalc.Order{
			{
				Date:      perfcalc.MustParseDate("2021-09-16"),
				Symbol:    "MSFT",
				Currency:  "USD",
				Type:      perfcalc.OrderBuy,
				Quantity:  perfcalc.Q(1),
				UnitPrice: perfcalc.M(298.58, "USD"),
			},
		},
		Quotes: stubQuotes{
			series: map[string]map[perfcalc.Date]perfcalc.Money{
				"MSFT": {perfcalc.MustParseDate("2021-09-16"): perfcalc.M(298.58, "USD")},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	chart, err := c.BuildChart(context.Background(), perfcalc.MustParseDate("2021-09-16"), end, 30, false)
	if err != nil {
		t.Fatal(err)
	}

	got := ChartMarkdown(chart, "Portfolio History")
	html := renderHTML(t, got)
	if !strings.Contains(got, "Portfolio History") {
		t.Errorf("markdown misses title:\n%s", got)
	}
	if !strings.Contains(got, "2023-07-10") {
		t.Errorf("markdown misses the end date row:\n%s", got)
	}
	if !strings.Contains(html, "<table>") {
		t.Error("rendered HTML has no table")
	}
}
