package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/openfolio/perfcalc"
	"github.com/openfolio/perfcalc/renderer"
)

// symbolCmd holds the flags for the 'symbol' subcommand.
type symbolCmd struct {
	date string
}

func (*symbolCmd) Name() string     { return "symbol" }
func (*symbolCmd) Synopsis() string { return "display the detail report of one position" }
func (*symbolCmd) Usage() string {
	return `pfcalc symbol [-d <date>] <symbol>

  Prints the full state and rolling horizon performance of one position.
`
}

func (c *symbolCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Evaluation date (defaults to today)")
}

func (c *symbolCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one symbol argument"))
	}
	symbol := f.Arg(0)

	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	calc, err := NewCalculator(cfg)
	if err != nil {
		return fail(err)
	}
	end, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}

	inception, ok := calc.InceptionDate()
	if !ok {
		return fail(fmt.Errorf("the ledger is empty"))
	}

	result, err := calc.ComputePositions(ctx, inception, end, true)
	if err != nil {
		return fail(err)
	}
	for _, p := range result.Positions {
		if p.Symbol != symbol {
			continue
		}
		fmt.Print(renderer.SymbolMarkdown(p))

		days := perfcalc.DaysBetween(inception, end)
		history, err := calc.SymbolHistory(ctx, symbol, end, perfcalc.ChartStep(days, perfcalc.MaxChartItems))
		if err != nil {
			return fail(err)
		}
		fmt.Print(renderer.HistoryMarkdown(history))
		return subcommands.ExitSuccess
	}
	return fail(fmt.Errorf("no position for %q on %s", symbol, end))
}
