package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
	"github.com/tbm/poslog/renderer"
)

type sellCmd struct {
	date     string
	category string
	branch   string
	table    string
	status   string
	mode     string
	customer string
	phone    string
	note     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "check out a sale and print its bill" }
func (*sellCmd) Usage() string {
	return `tbm sell -c <category> [flags] <id>:<qty>[:<price>[:<discount>]] ...

  Runs a checkout: every line's stock is decremented or none is, one order
  id is allocated, and all lines are persisted to the day's partition. On
  success the bill is printed.

Usage Examples:
# Two lines of one order.
$ tbm sell -c "Home Delivery" -b Main 3:2 7:1:150
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Sale date, defaults to today.")
	f.StringVar(&c.category, "c", "", "Sale category (required).")
	f.StringVar(&c.branch, "b", "", "Branch name.")
	f.StringVar(&c.table, "t", "", "Table number.")
	f.StringVar(&c.status, "status", "Live", "Payment status (Live, Due, Paid).")
	f.StringVar(&c.mode, "mode", "", "Payment mode, only recorded when Paid.")
	f.StringVar(&c.customer, "customer", "", "Customer name.")
	f.StringVar(&c.phone, "phone", "", "Customer phone.")
	f.StringVar(&c.note, "note", "", "Free-form remark on the order.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) == 0 {
		return fail(fmt.Errorf("at least one <id>:<qty> line is required"))
	}
	req := poslog.CheckoutRequest{
		Category:      c.category,
		Branch:        c.branch,
		TableNo:       c.table,
		PaymentStatus: poslog.PaymentStatus(c.status),
		PaymentMode:   c.mode,
		CustomerName:  c.customer,
		CustomerPhone: c.phone,
		Notes:         c.note,
	}
	if c.date != "" {
		on, err := poslog.ParseDate(c.date)
		if err != nil {
			return fail(err)
		}
		req.Date = on
	}
	for _, arg := range f.Args() {
		item, err := parseSellLine(arg)
		if err != nil {
			return fail(err)
		}
		req.Items = append(req.Items, item)
	}

	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	receipt, err := engine.Checkout(req)
	if err != nil {
		return fail(err)
	}
	fmt.Print(renderer.Bill(receipt))
	return subcommands.ExitSuccess
}

// parseSellLine parses one <id>:<qty>[:<price>[:<discount>]] argument.
func parseSellLine(arg string) (poslog.CheckoutItem, error) {
	var item poslog.CheckoutItem
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return item, fmt.Errorf("invalid line %q, want <id>:<qty>[:<price>[:<discount>]]", arg)
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return item, fmt.Errorf("invalid product id in %q: %w", arg, err)
	}
	item.ItemID = id
	if item.Qty, err = poslog.ParseQuantity(parts[1]); err != nil {
		return item, fmt.Errorf("invalid qty in %q: %w", arg, err)
	}
	if len(parts) >= 3 {
		price, err := poslog.ParseMoney(parts[2])
		if err != nil {
			return item, fmt.Errorf("invalid price in %q: %w", arg, err)
		}
		item.UnitPrice = &price
	}
	if len(parts) == 4 {
		if item.Discount, err = poslog.ParseMoney(parts[3]); err != nil {
			return item, fmt.Errorf("invalid discount in %q: %w", arg, err)
		}
	}
	return item, nil
}
