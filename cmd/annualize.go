package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/openfolio/perfcalc"
)

// annualizeCmd holds the flags for the 'annualize' subcommand.
type annualizeCmd struct {
	days int
	perf string
}

func (*annualizeCmd) Name() string     { return "annualize" }
func (*annualizeCmd) Synopsis() string { return "convert a total-period return into a yearly rate" }
func (*annualizeCmd) Usage() string {
	return `pfcalc annualize -days <n> -perf <ratio>

  Prints the annualized rate of a return earned over n days, e.g.
  'pfcalc annualize -days 730 -perf 0.21' prints +10.00%.
`
}

func (c *annualizeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Days the capital was in the market")
	f.StringVar(&c.perf, "perf", "0", "Total-period return as a ratio, e.g. 0.10 for 10%")
}

func (c *annualizeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	ratio, err := decimal.NewFromString(c.perf)
	if err != nil {
		return fail(fmt.Errorf("invalid -perf value %q: %w", c.perf, err))
	}
	annualized := perfcalc.Annualize(c.days, perfcalc.P(ratio))
	fmt.Println(annualized.SignedString())
	return subcommands.ExitSuccess
}
