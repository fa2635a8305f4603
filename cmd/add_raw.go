package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
)

type addRawCmd struct {
	name        string
	category    string
	subcategory string
	unit        string
	cost        string
	stock       string
	threshold   string
}

func (*addRawCmd) Name() string     { return "add-raw" }
func (*addRawCmd) Synopsis() string { return "add a raw material to the inventory" }
func (*addRawCmd) Usage() string {
	return `tbm add-raw -n <name> -c <category> -s <subcategory> -u <unit> [flags]

  Adds a raw material. Purchases recorded later match by name, category and
  subcategory and credit this item's stock.
`
}

func (c *addRawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Item name (required).")
	f.StringVar(&c.category, "c", "", "Category (required).")
	f.StringVar(&c.subcategory, "s", "", "Subcategory (required).")
	f.StringVar(&c.unit, "u", "", "Stock-keeping unit (required).")
	f.StringVar(&c.cost, "cost", "0", "Cost per unit.")
	f.StringVar(&c.stock, "stock", "0", "Initial stock.")
	f.StringVar(&c.threshold, "threshold", "0", "Low-stock threshold; 0 disables the advisory.")
}

func (c *addRawCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r := poslog.RawItem{
		Name:        c.name,
		Category:    c.category,
		Subcategory: c.subcategory,
		Unit:        c.unit,
	}
	var err error
	if r.UnitCost, err = poslog.ParseMoney(c.cost); err != nil {
		return fail(err)
	}
	if r.Stock, err = poslog.ParseQuantity(c.stock); err != nil {
		return fail(err)
	}
	if r.Threshold, err = poslog.ParseQuantity(c.threshold); err != nil {
		return fail(err)
	}

	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	stored, err := engine.AddRawItem(r)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Added raw material #%d %s (%s / %s), stock %s %s.\n",
		stored.ID, stored.Name, stored.Category, stored.Subcategory, stored.Stock, stored.Unit)
	return subcommands.ExitSuccess
}
