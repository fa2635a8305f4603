package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
)

type addProductCmd struct {
	name         string
	category     string
	itemCategory string
	code         string
	unit         string
	cost         string
	price        string
	qty          string
	threshold    string
}

func (*addProductCmd) Name() string     { return "add-product" }
func (*addProductCmd) Synopsis() string { return "add a ready product to the catalog" }
func (*addProductCmd) Usage() string {
	return `tbm add-product -n <name> -c <category> -u <unit> -price <price> [flags]

  Adds a sellable product. An omitted -code is generated: one digit and two
  letters, unique within the catalog.
`
}

func (c *addProductCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Product name (required).")
	f.StringVar(&c.category, "c", "", "Category (required).")
	f.StringVar(&c.itemCategory, "item-category", "", "Item category, used for code generation.")
	f.StringVar(&c.code, "code", "", "3-char product code; generated when empty.")
	f.StringVar(&c.unit, "u", "", "Unit (required).")
	f.StringVar(&c.cost, "cost", "0", "Cost per unit.")
	f.StringVar(&c.price, "price", "", "Selling price per unit (required).")
	f.StringVar(&c.qty, "q", "0", "Initial stock quantity.")
	f.StringVar(&c.threshold, "threshold", "0", "Low-stock threshold; 0 disables the advisory.")
}

func (c *addProductCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p := poslog.Product{
		Name:         c.name,
		Category:     c.category,
		ItemCategory: c.itemCategory,
		Code:         c.code,
		Unit:         c.unit,
	}
	var err error
	if p.UnitCost, err = poslog.ParseMoney(c.cost); err != nil {
		return fail(err)
	}
	if p.Price, err = poslog.ParseMoney(c.price); err != nil {
		return fail(err)
	}
	if p.Quantity, err = poslog.ParseQuantity(c.qty); err != nil {
		return fail(err)
	}
	if p.Threshold, err = poslog.ParseQuantity(c.threshold); err != nil {
		return fail(err)
	}

	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	stored, err := engine.AddProduct(p)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Added product #%d %s (code %s) at %s per %s.\n",
		stored.ID, stored.Name, stored.Code, stored.Price.Display(), stored.Unit)
	return subcommands.ExitSuccess
}
