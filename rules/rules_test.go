package rules

import (
	"strings"
	"testing"

	"fintidy"
	"fintidy/date"
)

func tx(description, account string, amount float64) fintidy.Transaction {
	t := fintidy.NewTransaction(date.New(2025, 8, 20), account, description, "", fintidy.MFloat(amount, "USD"))
	return t
}

func TestDefaultRules(t *testing.T) {
	engine := Default()
	tests := []struct {
		tx   fintidy.Transaction
		want string
	}{
		{tx: tx("TRADER JOES #552", "Checking", -42.17), want: "spending/shoulds/grocery"},
		{tx: tx("Trader Joes", "Checking", -10), want: "spending/shoulds/grocery"}, // case-insensitive
		{tx: tx("CHIPOTLE 1337", "Checking", -13.25), want: "spending/wants/dining/solo"},
		{tx: tx("ELECTRICITY SPLIT", "Venmo", 28.50), want: "income/uncategorized"},
		{tx: tx("SOMETHING ELSE", "Checking", -99), want: "spending/uncategorized"},
		{tx: tx("MYSTERY CREDIT", "Checking", 10), want: "income/uncategorized"},
	}
	for _, tc := range tests {
		got, _, _ := engine.Classify(tc.tx)
		if got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.tx.Description, got, tc.want)
		}
	}
}

func TestClassifyReportsFallback(t *testing.T) {
	engine := Default()
	if _, _, matched := engine.Classify(tx("TRADER JOES", "Checking", -10)); !matched {
		t.Errorf("a matching rule should report matched")
	}
	if _, _, matched := engine.Classify(tx("SOMETHING ELSE", "Checking", -10)); matched {
		t.Errorf("the implicit fallback should not report matched")
	}
}

func TestRuleSignPredicate(t *testing.T) {
	engine := Default()
	// A refund at trader joes is a credit, the debit-only rule must not match.
	got, _, matched := engine.Classify(tx("TRADER JOES REFUND", "Checking", 42.17))
	if matched {
		t.Errorf("debit rule matched a credit")
	}
	if got != "income/uncategorized" {
		t.Errorf("refund classified as %q, want income/uncategorized", got)
	}
}

func TestFirstMatchWins(t *testing.T) {
	first := Rule{Name: "first", Description: []string{"COFFEE"}, Assign: "spending/wants/dining/treats"}
	second := Rule{Name: "second", Description: []string{"COFFEE"}, Assign: "spending/wants/dining/solo"}
	engine, err := NewEngine(first, second)
	if err != nil {
		t.Fatal(err)
	}
	got, decided, _ := engine.Classify(tx("BLUE BOTTLE COFFEE", "Checking", -6))
	if got != "spending/wants/dining/treats" || decided.Name != "first" {
		t.Errorf("Classify = %q by %q, want the first rule to win", got, decided.Name)
	}
}

func TestRuleAccountAndCategoryPredicates(t *testing.T) {
	r := Rule{
		Name:        "venmo electricity",
		Sign:        Credit,
		Description: []string{"ELECTRICITY"},
		Account:     []string{"VENMO"},
	}
	if !r.Matches(tx("ELECTRICITY SPLIT", "Venmo Wallet", 28.50)) {
		t.Errorf("rule should match on description and account substrings")
	}
	if r.Matches(tx("ELECTRICITY SPLIT", "Checking", 28.50)) {
		t.Errorf("rule should not match another account")
	}

	byBank := Rule{Name: "bank category", Category: "Groceries", Assign: "spending/shoulds/grocery"}
	grocery := tx("WHOLE FOODS", "Checking", -20)
	grocery.Category = "groceries"
	if !byBank.Matches(grocery) {
		t.Errorf("bank category comparison should be case-insensitive")
	}
}

func TestNewEngineValidates(t *testing.T) {
	if _, err := NewEngine(Rule{Name: "bad", Assign: "spending/wants"}); err == nil {
		t.Errorf("assigning to a non-leaf should fail validation")
	}
	if _, err := NewEngine(Rule{Assign: "income/salary"}); err == nil {
		t.Errorf("a nameless rule should fail validation")
	}
}

func TestDecode(t *testing.T) {
	input := `{"name":"coffee","description":["COFFEE"],"sign":"debit","assign":"spending/wants/dining/treats"}

{"name":"salary","description":["PAYCHECK"],"sign":"credit","assign":"income/salary"}
`
	rules, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("decoded %d rules, want 2", len(rules))
	}
	if rules[0].Name != "coffee" || rules[0].Sign != Debit {
		t.Errorf("first rule = %+v", rules[0])
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "bad json", line: `{"name":`},
		{name: "unknown leaf", line: `{"name":"x","assign":"spending/nope"}`},
		{name: "non-leaf", line: `{"name":"x","assign":"spending"}`},
	}
	for _, tc := range tests {
		if _, err := Decode(strings.NewReader(tc.line + "\n")); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	var b strings.Builder
	if err := Encode(&b, Default().Rules()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := Decode(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(back) != len(Default().Rules()) {
		t.Errorf("round trip lost rules: %d != %d", len(back), len(Default().Rules()))
	}
}
