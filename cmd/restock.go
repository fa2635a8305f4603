package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
)

type restockCmd struct {
	date        string
	category    string
	subcategory string
	item        string
	unit        string
	qty         string
	cost        string
	notes       string
}

func (*restockCmd) Name() string     { return "restock" }
func (*restockCmd) Synopsis() string { return "record a raw material purchase and credit its stock" }
func (*restockCmd) Usage() string {
	return `tbm restock -c <category> -s <subcategory> -i <item> -u <unit> -q <qty> -cost <unit_cost>

  Records one purchase in the day's partition and credits the item's stock.
  An unknown item is created first. The purchase unit is converted to the
  item's unit (KG and GM convert into each other).
`
}

func (c *restockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Purchase date, defaults to today.")
	f.StringVar(&c.category, "c", "", "Category (required).")
	f.StringVar(&c.subcategory, "s", "", "Subcategory (required).")
	f.StringVar(&c.item, "i", "", "Item name (required).")
	f.StringVar(&c.unit, "u", "", "Unit purchased in (required).")
	f.StringVar(&c.qty, "q", "", "Quantity purchased (required).")
	f.StringVar(&c.cost, "cost", "", "Cost per unit (required).")
	f.StringVar(&c.notes, "notes", "", "Free-form note on the purchase.")
}

func (c *restockCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := poslog.PurchaseRequest{
		Category:    c.category,
		Subcategory: c.subcategory,
		Item:        c.item,
		Unit:        c.unit,
		Notes:       c.notes,
	}
	var err error
	if req.Qty, err = poslog.ParseQuantity(c.qty); err != nil {
		return fail(err)
	}
	if req.UnitCost, err = poslog.ParseMoney(c.cost); err != nil {
		return fail(err)
	}
	if c.date != "" {
		if req.Date, err = poslog.ParseDate(c.date); err != nil {
			return fail(err)
		}
	}

	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	receipt, err := engine.RecordPurchase(req)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded purchase #%d: %s %s of %s for %s. Stock now %s %s.\n",
		receipt.Purchase.ID, receipt.Purchase.Qty, receipt.Purchase.Unit,
		receipt.Purchase.Item, receipt.Purchase.TotalCost.Display(),
		receipt.NewStock, receipt.Unit)
	if receipt.LowStock {
		fmt.Println("Warning: stock is still at or below the reorder threshold.")
	}
	return subcommands.ExitSuccess
}
