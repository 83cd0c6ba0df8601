package renderer

import (
	"strings"
	"testing"

	"fintidy"
	"fintidy/date"
	"fintidy/rules"
)

func testSummary() *fintidy.Summary {
	l := fintidy.NewLedger()
	add := func(day date.Date, description string, amount float64, category string) {
		tx := fintidy.NewTransaction(day, "Checking", description, "", fintidy.MFloat(amount, "USD"))
		tx.Seal()
		l.Append(tx)
		if category != "" {
			l.Assign(fintidy.Assignment{Fingerprint: tx.ContentKey(), Category: category, Origin: fintidy.OriginRule})
		}
	}
	add(date.New(2025, 7, 15), "PAYCHECK", 2000, "income/salary")
	add(date.New(2025, 8, 20), "TRADER JOES", -42.17, "spending/shoulds/grocery")
	add(date.New(2025, 8, 24), "MYSTERY CREDIT", 10, "")

	r := date.NewRange(date.New(2025, 7, 1), date.New(2025, 8, 31))
	return fintidy.NewSummary(l, r, date.Monthly, 2, "USD")
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(testSummary())
	for _, want := range []string{
		"# Summary",
		"| Income | +$2,010.00 |",
		"| Spending | -$42.17 |",
		"## By category",
		"| income/salary | +$2,000.00 | 1 |",
		"## By period",
		"| 2025-July |",
		"1 transaction(s) are still uncategorized",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary markdown is missing %q:\n%s", want, md)
		}
	}
}

func TestTransactions(t *testing.T) {
	txs := []fintidy.Transaction{
		fintidy.NewTransaction(date.New(2025, 8, 20), "Checking", "TRADER JOES", "", fintidy.MFloat(-42.17, "USD")),
	}
	md := Transactions(txs, func(fintidy.Transaction) string { return "spending/shoulds/grocery" })
	for _, want := range []string{
		"| 2025-08-20 | TRADER JOES | -$42.17 | Checking | spending/shoulds/grocery |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("transactions markdown is missing %q:\n%s", want, md)
		}
	}
}

func TestTransactionsEmpty(t *testing.T) {
	md := Transactions(nil, func(fintidy.Transaction) string { return "" })
	if !strings.Contains(md, "No transactions.") {
		t.Errorf("empty listing = %q", md)
	}
}

func TestCategoryTreeMarkdown(t *testing.T) {
	md := CategoryTreeMarkdown(fintidy.CategoryTree())
	for _, want := range []string{
		"# Categories",
		"- income",
		"- spending",
		"    - dining", // nested under spending/wants
	} {
		if !strings.Contains(md, want) {
			t.Errorf("category tree markdown is missing %q", want)
		}
	}
}

func TestRules(t *testing.T) {
	md := Rules(rules.Default().Rules())
	for _, want := range []string{
		"# Rules",
		"groceries: trader joes",
		"spending/shoulds/grocery",
		"| - | fallback | everything | by sign |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("rules markdown is missing %q:\n%s", want, md)
		}
	}
}

func TestHitCounts(t *testing.T) {
	list := rules.Default().Rules()
	md := HitCounts(list, map[string]int{list[0].Name: 3}, 7)
	if !strings.Contains(md, "| "+list[0].Name+" | 3 |") {
		t.Errorf("hit counts markdown is missing the rule row:\n%s", md)
	}
	if !strings.Contains(md, "| fallback | 7 |") {
		t.Errorf("hit counts markdown is missing the fallback row:\n%s", md)
	}
}
