package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fintidy/renderer"
	"github.com/google/subcommands"
)

type rulesCmd struct {
	test bool
}

func (*rulesCmd) Name() string     { return "rules" }
func (*rulesCmd) Synopsis() string { return "list the classification rules in evaluation order" }
func (*rulesCmd) Usage() string {
	return `ft rules [-t]

  Lists the classification rules in evaluation order. With -t the rules are
  run over the ledger without saving anything, reporting how many
  transactions each rule would decide.
`
}

func (c *rulesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.test, "t", false, "Dry-run the rules over the ledger and report hit counts.")
}

func (c *rulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine, err := LoadRules()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !c.test {
		printMarkdown(renderer.Rules(engine.Rules()))
		return subcommands.ExitSuccess
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	hits := make(map[string]int)
	fallbackHits := 0
	for tx := range ledger.Transactions() {
		if tx.Hidden {
			continue
		}
		_, rule, matched := engine.Classify(tx)
		if matched {
			hits[rule.Name]++
		} else {
			fallbackHits++
		}
	}
	printMarkdown(renderer.HitCounts(engine.Rules(), hits, fallbackHits))
	return subcommands.ExitSuccess
}
