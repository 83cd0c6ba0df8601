package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fintidy"
	"fintidy/date"
	"fintidy/openrouter"
	"fintidy/store"
	"github.com/google/subcommands"
)

type classifyCmd struct {
	llm   bool
	force bool
	batch int
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "assign a category to every unassigned transaction" }
func (*classifyCmd) Usage() string {
	return `ft classify [-llm] [-force] [-batch <n>]

  Runs the rules over every transaction without a category yet. Transactions
  no rule matched fall back to income/uncategorized or
  spending/uncategorized by sign, unless -llm is set, in which case a model
  picks a category for them. Model verdicts are cached in the verdict
  database and reused on the next run; -force asks the model again.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.llm, "llm", false, "Classify the transactions no rule matched with a model.")
	f.BoolVar(&c.force, "force", false, "Ignore cached verdicts and ask the model again.")
	f.IntVar(&c.batch, "batch", 20, "Number of transactions per model request.")
}

func (c *classifyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.batch <= 0 {
		c.batch = 1
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	engine, err := LoadRules()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	today := date.Today()
	var undecided []fintidy.Transaction
	byRule := 0
	for _, tx := range ledger.Unassigned() {
		category, _, matched := engine.Classify(tx)
		if !matched && c.llm {
			undecided = append(undecided, tx)
			continue
		}
		ledger.Assign(fintidy.Assignment{
			Fingerprint: tx.ContentKey(),
			Category:    category,
			Origin:      fintidy.OriginRule,
			On:          today,
		})
		byRule++
	}

	byCache, byModel := 0, 0
	if len(undecided) > 0 {
		byCache, byModel, err = c.classifyLLM(ctx, ledger, undecided, today)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%d transactions categorized by rules, %d from cache, %d by the model, %d left uncategorized\n",
		byRule, byCache, byModel, len(ledger.Unassigned()))
	return subcommands.ExitSuccess
}

// classifyLLM resolves the undecided transactions against the verdict cache
// first, then asks the model for the rest in batches.
func (c *classifyCmd) classifyLLM(ctx context.Context, ledger *fintidy.Ledger, undecided []fintidy.Transaction, today date.Date) (byCache, byModel int, err error) {
	db, err := store.Open(*dbFile)
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	var pending []fintidy.Transaction
	for _, tx := range undecided {
		if !c.force {
			v, ok, err := db.Get(ctx, tx.ContentKey())
			if err != nil {
				return byCache, byModel, err
			}
			if ok {
				ledger.Assign(fintidy.Assignment{
					Fingerprint: tx.ContentKey(),
					Category:    v.Category,
					Origin:      v.Origin,
					On:          today,
				})
				byCache++
				continue
			}
		}
		pending = append(pending, tx)
	}
	if len(pending) == 0 {
		return byCache, 0, nil
	}

	cfg, err := openrouter.LoadConfig()
	if err != nil {
		return byCache, 0, err
	}
	client := openrouter.New(cfg)
	leaves := fintidy.CategoryTree().Leaves()

	for start := 0; start < len(pending); start += c.batch {
		end := min(start+c.batch, len(pending))
		batch := pending[start:end]

		verdicts, err := client.ClassifyBatch(ctx, batch, leaves)
		if err != nil {
			return byCache, byModel, err
		}
		for _, tx := range batch {
			category, ok := verdicts[tx.ContentKey()]
			if !ok {
				continue // the model skipped it, stays unassigned
			}
			ledger.Assign(fintidy.Assignment{
				Fingerprint: tx.ContentKey(),
				Category:    category,
				Origin:      fintidy.OriginLLM,
				On:          today,
			})
			if err := db.Put(ctx, tx.ContentKey(), category, fintidy.OriginLLM); err != nil {
				return byCache, byModel, err
			}
			byModel++
		}
	}
	return byCache, byModel, nil
}
