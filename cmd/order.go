package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
	"github.com/tbm/poslog/renderer"
)

type orderCmd struct {
	date string
}

func (*orderCmd) Name() string     { return "order" }
func (*orderCmd) Synopsis() string { return "preview the next order id or print an order's bill" }
func (*orderCmd) Usage() string {
	return `tbm order [-d <date>] [<order_id>]

  Without arguments, prints the id the next checkout will receive without
  consuming it. With an order id, prints that order's bill.
`
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date the order was placed, defaults to today.")
}

func (c *orderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}

	if f.NArg() == 0 {
		next, err := engine.NextOrderIDPreview()
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Next order id: %d\n", next)
		return subcommands.ExitSuccess
	}

	orderID, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		return fail(fmt.Errorf("invalid order id %q: %w", f.Arg(0), err))
	}
	on := poslog.Today()
	if c.date != "" {
		if on, err = poslog.ParseDate(c.date); err != nil {
			return fail(err)
		}
	}
	lines, err := engine.Order(on, orderID)
	if err != nil {
		return fail(err)
	}
	fmt.Print(renderer.Bill(&poslog.Receipt{OrderID: orderID, Lines: lines}))
	return subcommands.ExitSuccess
}
