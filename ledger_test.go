package fintidy

import (
	"testing"

	"fintidy/date"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	txs := []Transaction{
		NewTransaction(date.New(2025, 7, 15), "Checking", "PAYCHECK", "", MFloat(2000, "USD")),
		NewTransaction(date.New(2025, 8, 20), "Checking", "TRADER JOES", "", MFloat(-42.17, "USD")),
		NewTransaction(date.New(2025, 8, 22), "Checking", "CHIPOTLE", "", MFloat(-13.25, "USD")),
	}
	for _, tx := range txs {
		if !l.Append(tx) {
			t.Fatalf("could not append %s", tx.Description)
		}
	}
	return l
}

func TestLedgerAppendDeduplicates(t *testing.T) {
	l := testLedger(t)
	dup := NewTransaction(date.New(2025, 8, 20), "Checking", "TRADER JOES", "", MFloat(-42.17, "USD"))
	dup.Source = "another-file.csv"
	if l.Append(dup) {
		t.Errorf("appending a transaction with known content should be a no-op")
	}
	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3", l.Len())
	}
}

func TestLedgerAssign(t *testing.T) {
	l := testLedger(t)
	var tj Transaction
	for tx := range l.Transactions() {
		if tx.Description == "TRADER JOES" {
			tj = tx
		}
	}

	if got := l.CategoryOf(tj); got != Uncategorized {
		t.Errorf("CategoryOf before assignment = %q, want %q", got, Uncategorized)
	}
	l.Assign(Assignment{Fingerprint: tj.ContentKey(), Category: "spending/shoulds/grocery", Origin: OriginRule})
	if got := l.CategoryOf(tj); got != "spending/shoulds/grocery" {
		t.Errorf("CategoryOf = %q, want spending/shoulds/grocery", got)
	}

	// A later assignment overrides.
	l.Assign(Assignment{Fingerprint: tj.ContentKey(), Category: "spending/needs/home", Origin: OriginManual})
	a, ok := l.AssignmentOf(tj)
	if !ok || a.Category != "spending/needs/home" || a.Origin != OriginManual {
		t.Errorf("AssignmentOf = %+v, want the manual override", a)
	}

	if got := len(l.Unassigned()); got != 2 {
		t.Errorf("Unassigned = %d transactions, want 2", got)
	}
}

func TestLedgerSelect(t *testing.T) {
	l := testLedger(t)
	for tx := range l.Transactions() {
		if tx.Amount.IsNegative() {
			l.Assign(Assignment{Fingerprint: tx.ContentKey(), Category: "spending/wants/dining/solo", Origin: OriginRule})
		}
	}

	august := date.NewRange(date.New(2025, 8, 1), date.New(2025, 8, 31))
	if got := len(l.Select(august, "")); got != 2 {
		t.Errorf("Select(august) = %d transactions, want 2", got)
	}
	if got := len(l.Select(date.Range{}, "")); got != 3 {
		t.Errorf("Select(zero range) = %d transactions, want all 3", got)
	}
	if got := len(l.Select(date.Range{}, "spending/wants")); got != 2 {
		t.Errorf("Select(spending/wants) = %d transactions, want 2", got)
	}
	if got := len(l.Select(august, TopIncome)); got != 0 {
		t.Errorf("Select(august, income) = %d transactions, want 0", got)
	}
}

func TestLedgerSortByDate(t *testing.T) {
	l := NewLedger()
	l.Append(NewTransaction(date.New(2025, 8, 20), "A", "LATER", "", MFloat(-1, "USD")))
	l.Append(NewTransaction(date.New(2025, 7, 1), "A", "EARLIER", "", MFloat(-2, "USD")))
	l.SortByDate()

	var order []string
	for tx := range l.Transactions() {
		order = append(order, tx.Description)
	}
	if order[0] != "EARLIER" || order[1] != "LATER" {
		t.Errorf("order = %v, want EARLIER then LATER", order)
	}
}

func TestCoalesce(t *testing.T) {
	a := NewTransaction(date.New(2025, 8, 20), "Checking", "TRADER JOES", "", MFloat(-42.17, "USD"))
	a.Source = "aug.csv"
	a.Seal()
	b := a // same row repeated in the same file
	other := NewTransaction(date.New(2025, 8, 21), "Checking", "CHIPOTLE", "", MFloat(-13.25, "USD"))
	other.Source = "aug.csv"
	other.Seal()

	merged := Coalesce([]Transaction{a, b, other})
	if len(merged) != 2 {
		t.Fatalf("got %d rows, want 2", len(merged))
	}
	if got := merged[0].Amount.Decimal().String(); got != "-84.34" {
		t.Errorf("merged amount = %s, want -84.34", got)
	}
	if merged[0].ContentKey() != a.ContentKey() {
		t.Errorf("merged row should keep the first occurrence's identity")
	}
}

func TestDedupe(t *testing.T) {
	a := NewTransaction(date.New(2025, 8, 21), "Venmo", "ELECTRICITY SPLIT", "", MFloat(28.50, "USD"))
	a.Source = "aug.csv"
	a.Seal()
	b := a
	b.Source = "sep.csv"
	b.Seal()

	kept := Dedupe([]Transaction{a, b})
	if len(kept) != 1 {
		t.Fatalf("got %d rows, want 1", len(kept))
	}
	if kept[0].Source != "aug.csv" {
		t.Errorf("dedupe should keep the first file's row, kept %q", kept[0].Source)
	}
}
