package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fintidy"
	"github.com/google/subcommands"
)

type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import Fidelity Full View export files into the ledger" }
func (*importCmd) Usage() string {
	return `ft import [-n] <glob>

  Reads the CSV export files matching the glob, cleans them (merges literally
  identical rows of one file, drops rows already imported from an earlier
  file), and appends the new transactions to the ledger.

Usage Examples:
# Import all exports of the year.
$ ft import 'exports/2025-*.csv'
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Parse and report only, do not touch the ledger.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import expects exactly one glob pattern.")
		return subcommands.ExitUsageError
	}

	rows, stats, err := fintidy.ImportFiles(f.Arg(0), *currency, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	appended := 0
	for _, tx := range rows {
		if ledger.Append(tx) {
			appended++
		}
	}
	ledger.SortByDate()

	fmt.Printf("%d files, %d rows read, %d invalid, %d merged, %d duplicates dropped, %d new transactions\n",
		stats.Files, stats.Rows, stats.Invalid, stats.Coalesced, stats.Dropped, appended)

	if c.dryRun {
		return subcommands.ExitSuccess
	}

	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Ledger %s now holds %d transactions.\n", *ledgerFile, ledger.Len())
	return subcommands.ExitSuccess
}
