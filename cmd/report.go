package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
	"github.com/tbm/poslog/renderer"
)

type reportCmd struct {
	period   string
	start    string
	date     string
	category string
	item     string
	branch   string
	status   string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "aggregate spend or sales over a date range" }
func (*reportCmd) Usage() string {
	return `tbm report (spend|sales) [-p <period> | -s <start_date>] [-d <end_date>] [filters]

  Aggregates the daily partitions in the range. spend totals purchases by
  category and item; sales totals sale lines by category, item and branch.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "last30", "Predefined period (today, week, month, last30, last90, last180).")
	f.StringVar(&c.start, "s", "", "Start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "End date for the range, defaults to today.")
	f.StringVar(&c.category, "c", "", "Filter by category.")
	f.StringVar(&c.item, "i", "", "Filter by item name.")
	f.StringVar(&c.branch, "b", "", "Filter by branch (sales only).")
	f.StringVar(&c.status, "status", "", "Filter by payment status (sales only).")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || (f.Arg(0) != "spend" && f.Arg(0) != "sales") {
		return fail(fmt.Errorf("report needs exactly one of: spend, sales"))
	}
	rng, err := c.reportRange()
	if err != nil {
		return fail(err)
	}
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	switch f.Arg(0) {
	case "spend":
		report, err := engine.Spend(rng, poslog.SpendFilter{Category: c.category, Item: c.item})
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.Spend(report))
	case "sales":
		report, err := engine.Sales(rng, poslog.SalesFilter{
			Category:      c.category,
			Item:          c.item,
			Branch:        c.branch,
			PaymentStatus: poslog.PaymentStatus(c.status),
		})
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.Sales(report))
	}
	return subcommands.ExitSuccess
}

func (c *reportCmd) reportRange() (poslog.Range, error) {
	end := poslog.Today()
	if c.date != "" {
		var err error
		if end, err = poslog.ParseDate(c.date); err != nil {
			return poslog.Range{}, err
		}
	}
	if c.start != "" {
		start, err := poslog.ParseDate(c.start)
		if err != nil {
			return poslog.Range{}, err
		}
		return poslog.NewRange(start, end), nil
	}
	period, err := poslog.ParsePeriod(c.period)
	if err != nil {
		return poslog.Range{}, err
	}
	return period.Range(end), nil
}
