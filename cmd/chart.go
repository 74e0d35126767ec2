package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/openfolio/perfcalc"
	"github.com/openfolio/perfcalc/renderer"
)

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	date         string
	dateRange    string
	step         int
	maxItems     int
	timeWeighted bool
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "display the decimated portfolio history series" }
func (*chartCmd) Usage() string {
	return `pfcalc chart [-d <date>] [-r <range>] [-step n] [-max n] [-twr]

  Samples the portfolio value and cumulative performance over the selected
  range and prints the series as a markdown table.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "End date (defaults to today)")
	f.StringVar(&c.dateRange, "r", "max", "Reporting range (1d, wtd, mtd, ytd, 1y, 5y, max, or a year)")
	f.IntVar(&c.step, "step", 0, "Sampling step in days (0 picks one from the range length)")
	f.IntVar(&c.maxItems, "max", perfcalc.MaxChartItems, "Cap on the number of emitted samples")
	f.BoolVar(&c.timeWeighted, "twr", false, "Chain time-weighted growth factors across cash flows")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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

	step := c.step
	if step <= 0 {
		step = perfcalc.ChartStep(interval.Days(), c.maxItems)
	}

	result, err := calc.BuildChart(ctx, interval.From, interval.To, step, c.timeWeighted)
	if err != nil {
		return fail(err)
	}
	fmt.Print(renderer.ChartMarkdown(result, fmt.Sprintf("Portfolio History %s", interval)))
	return subcommands.ExitSuccess
}
