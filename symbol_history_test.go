package perfcalc

import (
	"context"
	"testing"
)

func TestSymbolHistory(t *testing.T) {
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders:   msftOrders(),
		Quotes:   msftMarket(),
	})
	end := MustParseDate("2023-07-10")

	history, err := c.SymbolHistory(context.Background(), "MSFT", end, 30)
	if err != nil {
		t.Fatalf("SymbolHistory() failed: %v", err)
	}
	if len(history.Items) == 0 {
		t.Fatal("SymbolHistory() returned no items")
	}

	first := history.Items[0]
	if got, want := first.Date, MustParseDate("2021-09-16"); !got.Equal(want) {
		t.Errorf("first date = %s, want %s", got, want)
	}
	if got, want := first.Quantity, Q(1); !got.Equal(want) {
		t.Errorf("first quantity = %s, want %s", got, want)
	}
	if got, want := first.MarketPrice, M(298.58, "USD"); !got.Equal(want) {
		t.Errorf("first market price = %s, want %s", got, want)
	}

	last := history.Items[len(history.Items)-1]
	if got, want := last.Date, end; !got.Equal(want) {
		t.Errorf("last date = %s, want %s", got, want)
	}
	if got, want := last.MarketPrice, M(331.83, "USD"); !got.Equal(want) {
		t.Errorf("last market price = %s, want %s", got, want)
	}
	if got, want := last.AveragePrice, M(298.58, "USD"); !got.Equal(want) {
		t.Errorf("last average price = %s, want %s", got, want)
	}

	if got, want := history.MaxPrice, M(339.51, "USD"); !got.Equal(want) {
		t.Errorf("MaxPrice = %s, want %s", got, want)
	}
	if got, want := history.MinPrice, M(298.58, "USD"); !got.Equal(want) {
		t.Errorf("MinPrice = %s, want %s", got, want)
	}
}

func TestSymbolHistory_CarriesLastKnownPrice(t *testing.T) {
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders:   msftOrders(),
		Quotes:   msftMarket(),
	})

	// No quote exists on this date; the previous close carries forward.
	history, err := c.SymbolHistory(context.Background(), "MSFT", MustParseDate("2021-11-20"), 1)
	if err != nil {
		t.Fatalf("SymbolHistory() failed: %v", err)
	}
	last := history.Items[len(history.Items)-1]
	if got, want := last.MarketPrice, M(339.51, "USD"); !got.Equal(want) {
		t.Errorf("carried market price = %s, want %s", got, want)
	}
}

func TestSymbolHistory_UnknownSymbol(t *testing.T) {
	c := newTestCalculator(t, Options{
		Currency: "USD",
		Orders:   msftOrders(),
		Quotes:   msftMarket(),
	})

	history, err := c.SymbolHistory(context.Background(), "GHOST", MustParseDate("2023-07-10"), 1)
	if err != nil {
		t.Fatalf("SymbolHistory() failed: %v", err)
	}
	if len(history.Items) != 0 {
		t.Errorf("items = %d, want 0", len(history.Items))
	}
}
