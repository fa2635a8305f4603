package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
)

type branchCmd struct {
	add    string
	tables string
	date   string
	status string
}

func (*branchCmd) Name() string     { return "branch" }
func (*branchCmd) Synopsis() string { return "list branches, add one, or show a branch's open tables" }
func (*branchCmd) Usage() string {
	return `tbm branch [-add <name>] [-tables <name> [-d <date>] [-status <status>]]

  Without flags, lists the branches. -add registers a branch, deduplicated
  by name. -tables summarizes open sale lines per table for one branch.
`
}

func (c *branchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Branch name to register.")
	f.StringVar(&c.tables, "tables", "", "Branch whose open tables to summarize.")
	f.StringVar(&c.date, "d", "", "Date for -tables, defaults to today.")
	f.StringVar(&c.status, "status", "Live", "Payment status for -tables.")
}

func (c *branchCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}

	if c.add != "" {
		branch, err := engine.AddBranch(c.add, true)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Branch #%d %s\n", branch.ID, branch.Name)
		return subcommands.ExitSuccess
	}

	if c.tables != "" {
		on := poslog.Today()
		if c.date != "" {
			if on, err = poslog.ParseDate(c.date); err != nil {
				return fail(err)
			}
		}
		tables, err := engine.BranchTables(on, c.tables, poslog.PaymentStatus(c.status))
		if err != nil {
			return fail(err)
		}
		if len(tables) == 0 {
			fmt.Printf("No %s orders for %s on %s.\n", c.status, c.tables, on)
			return subcommands.ExitSuccess
		}
		for _, t := range tables {
			fmt.Printf("Table %s: %d open line(s)\n", t.TableNo, t.OpenOrders)
		}
		return subcommands.ExitSuccess
	}

	branches, err := engine.Branches.List()
	if err != nil {
		return fail(err)
	}
	for _, b := range branches {
		state := "inactive"
		if b.IsActive {
			state = "active"
		}
		fmt.Printf("#%d %s (%s)\n", b.ID, b.Name, state)
	}
	return subcommands.ExitSuccess
}
