// Package cmd implements the CLI application to manage personal finances.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fintidy"
	"fintidy/rules"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands are the subcommands of the application. A main package registers
// them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&importCmd{},
	&txCmd{},
	&summaryCmd{},
	&classifyCmd{},
	&rulesCmd{},
	&categoriesCmd{},
	&fmtCmd{},
	&assistCmd{},
}

// As a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables for the app-wide flags.

var ledgerFile = flag.String("ledger-file", "ledger.jsonl", "Path to the ledger file (JSONL format)")
var rulesFile = flag.String("rules-file", "", "Path to the rule file (JSONL format, built-in rules when empty)")
var dbFile = flag.String("db", defaultDBPath(), "Path to the verdict cache database")
var currency = flag.String("cur", "USD", "Currency of the statement amounts")

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "assignments.db"
	}
	return filepath.Join(home, ".fintidy", "assignments.db")
}

// DecodeLedger decodes the ledger from the app default ledger file. A missing
// file is an empty ledger.
func DecodeLedger() (*fintidy.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fintidy.NewLedger(), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	ledger, err := fintidy.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", *ledgerFile, err)
	}
	return ledger, nil
}

// SaveLedger writes the ledger back to the app default ledger file.
func SaveLedger(l *fintidy.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return fmt.Errorf("could not create ledger file %q: %w", *ledgerFile, err)
	}
	if err := fintidy.EncodeLedger(f, l); err != nil {
		f.Close()
		return fmt.Errorf("could not write ledger file %q: %w", *ledgerFile, err)
	}
	return f.Close()
}

// LoadRules loads the rule engine from the app rule file, or the built-in
// rules when no file is configured.
func LoadRules() (*rules.Engine, error) {
	if *rulesFile == "" {
		return rules.Default(), nil
	}
	f, err := os.Open(*rulesFile)
	if err != nil {
		return nil, fmt.Errorf("could not open rule file %q: %w", *rulesFile, err)
	}
	defer f.Close()

	list, err := rules.Decode(f)
	if err != nil {
		return nil, err
	}
	return rules.NewEngine(list...)
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
