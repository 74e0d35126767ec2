package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/openfolio/perfcalc"
	"github.com/openfolio/perfcalc/renderer"
)

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	date      string
	dateRange string
	noQuotes  bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "display the aggregated position snapshot" }
func (*snapshotCmd) Usage() string {
	return `pfcalc snapshot [-d <date>] [-r <range>] [-no-quotes]

  Computes every position over the selected range and prints a markdown
  report with per-position and portfolio-level performance.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Evaluation date (defaults to today)")
	f.StringVar(&c.dateRange, "r", "max", "Reporting range (1d, wtd, mtd, ytd, 1y, 5y, max, or a year)")
	f.BoolVar(&c.noQuotes, "no-quotes", false, "Skip market data, report invested capital only")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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
		inception = end
	}
	interval := perfcalc.DateRange(c.dateRange).Interval(inception, end)

	result, err := calc.ComputePositions(ctx, interval.From, interval.To, !c.noQuotes)
	if err != nil {
		return fail(err)
	}
	fmt.Print(renderer.SnapshotMarkdown(result, interval.To))
	return subcommands.ExitSuccess
}
