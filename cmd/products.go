package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/tbm/poslog/renderer"
)

type productsCmd struct{}

func (*productsCmd) Name() string     { return "products" }
func (*productsCmd) Synopsis() string { return "list the ready product catalog" }
func (*productsCmd) Usage() string {
	return `tbm products

  Lists every sellable product with its code, price and stock level.
`
}

func (*productsCmd) SetFlags(f *flag.FlagSet) {}

func (*productsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	products, err := engine.Ready.List()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Products(products))
	return subcommands.ExitSuccess
}

type rawCmd struct{}

func (*rawCmd) Name() string     { return "raw" }
func (*rawCmd) Synopsis() string { return "list the raw material inventory" }
func (*rawCmd) Usage() string {
	return `tbm raw

  Lists every raw material with its cost and stock level.
`
}

func (*rawCmd) SetFlags(f *flag.FlagSet) {}

func (*rawCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	items, err := engine.Raw.List()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RawItems(items))
	return subcommands.ExitSuccess
}

type lowCmd struct{}

func (*lowCmd) Name() string     { return "low" }
func (*lowCmd) Synopsis() string { return "list products and materials at or below their threshold" }
func (*lowCmd) Usage() string {
	return `tbm low

  Lists ready products and raw materials whose stock sits at or below the
  configured reorder threshold.
`
}

func (*lowCmd) SetFlags(f *flag.FlagSet) {}

func (*lowCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	ready, err := engine.Stock.LowStockReady()
	if err != nil {
		return fail(err)
	}
	raw, err := engine.Stock.LowStockRaw()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.LowStock(ready, raw))
	return subcommands.ExitSuccess
}
