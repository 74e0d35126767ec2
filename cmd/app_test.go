package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openfolio/perfcalc"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pfcalc.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	old := *configFile
	*configFile = cfgPath
	t.Cleanup(func() { *configFile = old })
}

func TestLoadConfig(t *testing.T) {
	writeConfig(t, "currency: USD\nconvention: TWR\norders: orders.json\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if got, want := cfg.Currency, "USD"; got != want {
		t.Errorf("currency = %q, want %q", got, want)
	}
	if got, want := cfg.Convention, "TWR"; got != want {
		t.Errorf("convention = %q, want %q", got, want)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeConfig(t, "currency: EUR\norders: orders.json\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if got, want := cfg.Convention, string(perfcalc.ROI); got != want {
		t.Errorf("default convention = %q, want %q", got, want)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "missing currency", content: "orders: orders.json\n"},
		{name: "unknown convention", content: "currency: USD\nconvention: IRR\n"},
		{name: "not yaml", content: "{{{"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			writeConfig(t, tc.content)
			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() should fail")
			}
		})
	}
}

func TestNewCalculator(t *testing.T) {
	dir := t.TempDir()
	ordersPath := filepath.Join(dir, "orders.json")
	orders := `[
	  {"date": "2021-09-16", "symbol": "MSFT", "currency": "USD", "type": "BUY",
	   "quantity": "1", "unitPrice": {"amount": "298.58", "currency": "USD"},
	   "fee": {"amount": "19", "currency": "USD"}}
	]`
	if err := os.WriteFile(ordersPath, []byte(orders), 0o644); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, "currency: USD\norders: "+ordersPath+"\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	calc, err := NewCalculator(cfg)
	if err != nil {
		t.Fatalf("NewCalculator() failed: %v", err)
	}

	result, err := calc.ComputePositions(context.Background(),
		perfcalc.MustParseDate("2021-09-16"), perfcalc.MustParseDate("2021-09-16"), false)
	if err != nil {
		t.Fatalf("ComputePositions() failed: %v", err)
	}
	if len(result.Positions) != 1 || result.Positions[0].Symbol != "MSFT" {
		t.Fatalf("positions = %+v, want one MSFT position", result.Positions)
	}
	if got, want := result.Positions[0].Investment, perfcalc.M(298.58, "USD"); !got.Equal(want) {
		t.Errorf("investment = %s, want %s", got, want)
	}
}
