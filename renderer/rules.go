package renderer

import (
	"fmt"
	"strings"

	"fintidy/rules"
)

// Rules renders the rule list in evaluation order.
func Rules(list []rules.Rule) string {
	var b strings.Builder
	b.WriteString("# Rules\n\n")
	b.WriteString("| # | Rule | Matches | Assigns |\n|---:|---|---|---|\n")
	for i, r := range list {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, r.Name, predicates(r), outcome(r))
	}
	b.WriteString("| - | fallback | everything | by sign |\n")
	return b.String()
}

// HitCounts renders a dry-run result: how many transactions each rule decided.
func HitCounts(list []rules.Rule, hits map[string]int, fallbackHits int) string {
	var b strings.Builder
	b.WriteString("# Rule hits\n\n")
	b.WriteString("| Rule | Hits |\n|---|---:|\n")
	for _, r := range list {
		fmt.Fprintf(&b, "| %s | %d |\n", r.Name, hits[r.Name])
	}
	fmt.Fprintf(&b, "| fallback | %d |\n", fallbackHits)
	return b.String()
}

func predicates(r rules.Rule) string {
	var parts []string
	if r.Sign != rules.AnySign {
		parts = append(parts, string(r.Sign))
	}
	if len(r.Description) > 0 {
		parts = append(parts, "description ~ "+strings.Join(r.Description, "|"))
	}
	if len(r.Account) > 0 {
		parts = append(parts, "account ~ "+strings.Join(r.Account, "|"))
	}
	if r.Category != "" {
		parts = append(parts, "bank category = "+r.Category)
	}
	if len(parts) == 0 {
		return "everything"
	}
	return strings.Join(parts, ", ")
}

func outcome(r rules.Rule) string {
	if r.Assign == "" {
		return "by sign"
	}
	return r.Assign
}
