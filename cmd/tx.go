package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fintidy"
	"fintidy/date"
	"fintidy/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	period     string
	start      string
	date       string
	category   string
	head       int
	tail       int
	unassigned bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `ft tx [-p <period> | -s <start_date>] [-d <end_date>] [-c <category>] [-head <n>] [-tail <n>] [-unassigned]

  Lists transactions from the ledger, with options for filtering by date
  range and category subtree and limiting the output. Without date flags the
  whole ledger is listed.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period ending on the end date (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range (defaults to today).")
	f.StringVar(&p.category, "c", "", "Restrict the listing to a category subtree, e.g. spending/wants.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&p.unassigned, "unassigned", false, "List only the transactions without a category yet.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.unassigned {
		printMarkdown(renderer.Transactions(ledger.Unassigned(), ledger.CategoryOf))
		return subcommands.ExitSuccess
	}

	r, err := parseRangeFlags(p.period, p.start, p.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	if p.category != "" && !fintidy.ValidCategory(p.category) {
		fmt.Fprintf(os.Stderr, "Error: unknown category %q\n", p.category)
		return subcommands.ExitUsageError
	}

	txs := ledger.Select(r, p.category)
	if p.head > 0 && p.head < len(txs) {
		txs = txs[:p.head]
	}
	if p.tail > 0 && p.tail < len(txs) {
		txs = txs[len(txs)-p.tail:]
	}
	printMarkdown(renderer.Transactions(txs, ledger.CategoryOf))
	return subcommands.ExitSuccess
}

// parseRangeFlags turns the shared -p/-s/-d flags into a date range. All
// empty means the zero range, i.e. no date filtering.
func parseRangeFlags(period, start, end string) (date.Range, error) {
	if period == "" && start == "" && end == "" {
		return date.Range{}, nil
	}

	endStr := end
	if endStr == "" {
		endStr = date.Today().String()
	}
	endDate, err := date.Parse(endStr)
	if err != nil {
		return date.Range{}, fmt.Errorf("error parsing end date: %w", err)
	}

	if start != "" {
		startDate, err := date.Parse(start)
		if err != nil {
			return date.Range{}, fmt.Errorf("error parsing start date: %w", err)
		}
		return date.NewRange(startDate, endDate), nil
	}

	p, err := date.ParsePeriod(period)
	if err != nil {
		return date.Range{}, fmt.Errorf("error parsing period: %w", err)
	}
	return p.Range(endDate), nil
}
