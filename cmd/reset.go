package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/tbm/poslog"
)

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "archive all data and restart the order sequence" }
func (*resetCmd) Usage() string {
	return `tbm reset

  Archives the whole data directory aside and restarts the order sequence
  at 0. Refuses to run unless the settings file opts in with full_invent=1,
  so the ledger cannot be wiped by accident.
`
}

func (*resetCmd) SetFlags(f *flag.FlagSet) {}

func (*resetCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := poslog.ReadConfig(confPath())
	if err != nil {
		return fail(err)
	}
	if !cfg.FullInvent {
		return fail(fmt.Errorf("reset requires full_invent=1 in %s", confPath()))
	}
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	archived, err := engine.FullReset()
	if err != nil {
		return fail(err)
	}
	if err := poslog.DisarmFullInvent(confPath()); err != nil {
		return fail(err)
	}
	fmt.Printf("Data archived to %s; order sequence restarted at 0.\n", archived)
	return subcommands.ExitSuccess
}
