// Package cmd implements the CLI application to run the shop's ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/tbm/poslog"
)

// Commands lists every subcommand; a main package registers them on a
// commander and executes the selected one.
var Commands = []subcommands.Command{
	&serveCmd{},
	&sellCmd{},
	&restockCmd{},
	&addProductCmd{},
	&addRawCmd{},
	&productsCmd{},
	&rawCmd{},
	&lowCmd{},
	&reportCmd{},
	&branchCmd{},
	&orderCmd{},
	&paymentCmd{},
	&resetCmd{},
	&topicCmd{},
}

// As a CLI application with a short lived lifecycle, global flags are fine.

var rootDir = flag.String("root", ".", "Path to the application root (conf/ and data/ live under it)")
var verbose = flag.Bool("v", false, "Verbose logging")

// openEngine opens the ledger engine over the -root directory.
func openEngine() (*poslog.Engine, error) {
	return poslog.Open(*rootDir, appLogger())
}

func appLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// confPath is the k=v settings file guarding the full reset.
func confPath() string { return filepath.Join(*rootDir, "conf", "settings.conf") }

// fail prints the error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
