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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
	start  string
	date   string
	bucket string
	depth  int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display an income and spending summary per category" }
func (*summaryCmd) Usage() string {
	return `ft summary [-p <period> | -s <start_date>] [-d <end_date>] [-b <bucket>] [-depth <n>]

  Displays a summary over the date range: total income, spending and
  transfers, a per-category breakdown rolled up to the requested depth, and
  per-bucket subtotals when the range spans several buckets.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Predefined period ending on the end date (day, week, month, quarter, year).")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "The end date for the range (defaults to today).")
	f.StringVar(&c.bucket, "b", "month", "Bucket size for the subtotals (week, month, quarter, year).")
	f.IntVar(&c.depth, "depth", 2, "Number of category path segments to roll totals up to.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRangeFlags(c.period, c.start, c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	bucket, err := date.ParsePeriod(c.bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing bucket: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	s := fintidy.NewSummary(ledger, r, bucket, c.depth, *currency)
	printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}
