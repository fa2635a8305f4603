package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/tbm/poslog/server"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger over HTTP for the POS front end" }
func (*serveCmd) Usage() string {
	return `tbm serve [-addr <addr>]

  Starts the HTTP API over the ledger at -root. The POS front end performs
  checkouts, restocks and reporting through it.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8032", "Address to listen on.")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := appLogger()
	engine, err := openEngine()
	if err != nil {
		return fail(err)
	}
	srv := server.New(engine, log, confPath())
	if err := srv.ListenAndServe(c.addr); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
