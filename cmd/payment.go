package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
)

type paymentCmd struct {
	date   string
	status string
	mode   string
}

func (*paymentCmd) Name() string     { return "payment" }
func (*paymentCmd) Synopsis() string { return "settle or update the payment of a sale line" }
func (*paymentCmd) Usage() string {
	return `tbm payment -status <status> [-mode <mode>] [-d <date>] <sale_id>

  Updates the settlement fields of one sale line, the only mutation allowed
  on the sales store. The mode is only kept when the status becomes Paid.
`
}

func (c *paymentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date the sale was recorded, defaults to today.")
	f.StringVar(&c.status, "status", "", "New payment status (Live, Due, Paid).")
	f.StringVar(&c.mode, "mode", "", "Payment mode, recorded when the sale is Paid.")
}

func (c *paymentCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("exactly one sale id is required"))
	}
	saleID, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		return fail(fmt.Errorf("invalid sale id %q: %w", f.Arg(0), err))
	}
	on := poslog.Today()
	if c.date != "" {
		if on, err = poslog.ParseDate(c.date); err != nil {
			return fail(err)
		}
	}
	var status *poslog.PaymentStatus
	if c.status != "" {
		s := poslog.PaymentStatus(c.status)
		status = &s
	}
	var mode *string
	if c.mode != "" {
		mode = &c.mode
	}

	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	sale, err := engine.UpdatePayment(on, saleID, status, mode)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Sale #%d (order #%d) is now %s %s\n", sale.ID, sale.OrderID, sale.PaymentStatus, sale.PaymentMode)
	return subcommands.ExitSuccess
}
