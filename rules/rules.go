// Package rules implements the ordered first-match engine that assigns
// personal categories to transactions. Text predicates run before amount
// predicates so that peer-to-peer credits land in the spending category they
// settle instead of being mistaken for income.
package rules

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fintidy"
)

// Sign restricts a rule to debits or credits.
type Sign string

const (
	AnySign Sign = ""
	Debit   Sign = "debit"  // amount < 0
	Credit  Sign = "credit" // amount > 0
)

// Rule is one classification rule. All set predicates must hold for the rule
// to match; predicates about data the transaction lacks simply do not match.
type Rule struct {
	Name string `json:"name"`

	// Predicates. Substring lists are any-of, case-insensitive.
	Description []string `json:"description,omitempty"` // statement description contains
	Account     []string `json:"account,omitempty"`     // account name contains
	Category    string   `json:"category,omitempty"`    // institution category equals
	Sign        Sign     `json:"sign,omitempty"`

	// Outcome: the category path to assign. Empty means the sign-dependent
	// fallback (spending/uncategorized for debits, income/uncategorized
	// otherwise).
	Assign string `json:"assign,omitempty"`
}

// Matches reports whether the transaction satisfies every set predicate.
func (r Rule) Matches(tx fintidy.Transaction) bool {
	if len(r.Description) > 0 && !containsAny(tx.Description, r.Description) {
		return false
	}
	if len(r.Account) > 0 && !containsAny(tx.Account, r.Account) {
		return false
	}
	if r.Category != "" && !strings.EqualFold(tx.Category, r.Category) {
		return false
	}
	switch r.Sign {
	case Debit:
		if !tx.Amount.IsNegative() {
			return false
		}
	case Credit:
		if !tx.Amount.IsPositive() {
			return false
		}
	}
	return true
}

// CategoryFor returns the category path this rule assigns to the transaction.
func (r Rule) CategoryFor(tx fintidy.Transaction) string {
	if r.Assign != "" {
		return r.Assign
	}
	if tx.Amount.IsNegative() {
		return fintidy.TopSpending + "/" + fintidy.Uncategorized
	}
	return fintidy.TopIncome + "/" + fintidy.Uncategorized
}

// Validate checks that the rule's outcome targets an existing leaf of the
// category tree. The sign-dependent fallback is always valid.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule has no name")
	}
	if r.Assign == "" {
		return nil
	}
	if err := fintidy.CheckLeaf(r.Assign); err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	upper := strings.ToUpper(s)
	for _, sub := range subs {
		if strings.Contains(upper, strings.ToUpper(sub)) {
			return true
		}
	}
	return false
}

// Engine applies rules in order; the first matching rule decides the category.
// A final always-match fallback is implicit, so Classify always decides.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules, validated in order.
func NewEngine(rules ...Rule) (*Engine, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return &Engine{rules: rules}, nil
}

// Rules returns the engine's rules in evaluation order, fallback excluded.
func (e *Engine) Rules() []Rule { return e.rules }

// fallback is the implicit last rule: matches everything, assigns by sign.
var fallback = Rule{Name: "fallback"}

// Classify returns the category for the transaction and the rule that decided
// it. matched is false when only the implicit fallback applied.
func (e *Engine) Classify(tx fintidy.Transaction) (category string, decided Rule, matched bool) {
	for _, r := range e.rules {
		if r.Matches(tx) {
			return r.CategoryFor(tx), r, true
		}
	}
	return fallback.CategoryFor(tx), fallback, false
}

// Default returns the engine loaded with the built-in starter rules.
func Default() *Engine {
	e, err := NewEngine(defaults...)
	if err != nil {
		panic(err) // defaults are validated by tests
	}
	return e
}

// defaults are the built-in starter rules: enough to see the pipeline work
// before writing a personal rule file.
var defaults = []Rule{
	{
		Name:        "groceries: trader joes",
		Sign:        Debit,
		Description: []string{"TRADER JOES"},
		Assign:      "spending/shoulds/grocery",
	},
	{
		Name:        "dining: chipotle",
		Sign:        Debit,
		Description: []string{"CHIPOTLE"},
		Assign:      "spending/wants/dining/solo",
	},
	{
		Name:        "reimbursement: electricity via venmo",
		Sign:        Credit,
		Description: []string{"ELECTRICITY"},
		Account:     []string{"VENMO"},
		Assign:      "income/uncategorized",
	},
}

// Decode reads a JSONL rule file: one rule per line, blank lines skipped.
func Decode(r io.Reader) ([]Rule, error) {
	var rules []Rule
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rule Rule
		if err := json.Unmarshal([]byte(text), &rule); err != nil {
			return nil, fmt.Errorf("rule file line %d: %w", line, err)
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule file line %d: %w", line, err)
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rule file: %w", err)
	}
	return rules, nil
}

// Encode writes rules in the JSONL rule file format.
func Encode(w io.Writer, rules []Rule) error {
	for _, r := range rules {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("cannot marshal rule %q: %w", r.Name, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write rule %q: %w", r.Name, err)
		}
	}
	return nil
}
