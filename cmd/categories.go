package cmd

import (
	"context"
	"flag"

	"fintidy"
	"fintidy/renderer"
	"github.com/google/subcommands"
)

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "display the category tree" }
func (*categoriesCmd) Usage() string {
	return `ft categories

  Displays the category tree transactions are filed under. Only leaves can
  be assigned to a transaction.
`
}

func (*categoriesCmd) SetFlags(_ *flag.FlagSet) {}

func (*categoriesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.CategoryTreeMarkdown(fintidy.CategoryTree()))
	return subcommands.ExitSuccess
}
