package fintidy

import (
	"testing"

	"fintidy/date"
)

func summaryLedger() *Ledger {
	l := NewLedger()
	add := func(day date.Date, description string, amount float64, category string) {
		tx := NewTransaction(day, "Checking", description, "", MFloat(amount, "USD"))
		tx.Seal()
		l.Append(tx)
		if category != "" {
			l.Assign(Assignment{Fingerprint: tx.ContentKey(), Category: category, Origin: OriginRule})
		}
	}
	add(date.New(2025, 7, 15), "PAYCHECK", 2000, "income/salary")
	add(date.New(2025, 7, 20), "RENT", -1200, "spending/needs/rent")
	add(date.New(2025, 8, 20), "TRADER JOES", -42.17, "spending/shoulds/grocery")
	add(date.New(2025, 8, 22), "CHIPOTLE", -13.25, "spending/wants/dining/solo")
	add(date.New(2025, 8, 23), "TO BROKERAGE", -500, "transfers/stocks")
	add(date.New(2025, 8, 24), "MYSTERY CREDIT", 10, "")
	return l
}

func TestNewSummaryTotals(t *testing.T) {
	l := summaryLedger()
	r := date.NewRange(date.New(2025, 7, 1), date.New(2025, 8, 31))
	s := NewSummary(l, r, date.Monthly, 2, "USD")

	// The unassigned credit counts as income by sign.
	if got := s.Income.Decimal().String(); got != "2010" {
		t.Errorf("Income = %s, want 2010", got)
	}
	if got := s.Spending.Decimal().String(); got != "-1255.42" {
		t.Errorf("Spending = %s, want -1255.42", got)
	}
	if got := s.Transfers.Decimal().String(); got != "-500" {
		t.Errorf("Transfers = %s, want -500", got)
	}
	if got := s.Net.Decimal().String(); got != "754.58" {
		t.Errorf("Net = %s, want 754.58", got)
	}
	if s.Uncategorized != 1 {
		t.Errorf("Uncategorized = %d, want 1", s.Uncategorized)
	}
}

func TestNewSummaryCategories(t *testing.T) {
	l := summaryLedger()
	r := date.NewRange(date.New(2025, 7, 1), date.New(2025, 8, 31))
	s := NewSummary(l, r, date.Monthly, 2, "USD")

	byPath := make(map[string]CategoryTotal)
	for _, ct := range s.Categories {
		byPath[ct.Path] = ct
	}
	grocery, ok := byPath["spending/shoulds"]
	if !ok {
		t.Fatalf("no spending/shoulds rollup in %v", s.Categories)
	}
	if got := grocery.Total.Decimal().String(); got != "-42.17" || grocery.Count != 1 {
		t.Errorf("spending/shoulds = %s over %d transactions, want -42.17 over 1", got, grocery.Count)
	}

	// Income sorts before spending, spending before transfers.
	if TopLevel(s.Categories[0].Path) != TopIncome {
		t.Errorf("first category is %q, want an income one", s.Categories[0].Path)
	}
	last := s.Categories[len(s.Categories)-1]
	if TopLevel(last.Path) != Uncategorized {
		t.Errorf("last category is %q, want the uncategorized bucket", last.Path)
	}
}

func TestNewSummaryBuckets(t *testing.T) {
	l := summaryLedger()
	r := date.NewRange(date.New(2025, 7, 1), date.New(2025, 8, 31))
	s := NewSummary(l, r, date.Monthly, 2, "USD")

	if len(s.Buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(s.Buckets))
	}
	if s.Buckets[0].Label != "2025-July" || s.Buckets[1].Label != "2025-August" {
		t.Errorf("bucket order = %q, %q; want July then August", s.Buckets[0].Label, s.Buckets[1].Label)
	}
	if got := s.Buckets[0].Net.Decimal().String(); got != "800" {
		t.Errorf("July net = %s, want 800", got)
	}
}

func TestNewSummarySingleBucket(t *testing.T) {
	l := summaryLedger()
	r := date.NewRange(date.New(2025, 8, 1), date.New(2025, 8, 31))
	s := NewSummary(l, r, date.Monthly, 2, "USD")
	if s.Buckets != nil {
		t.Errorf("a single-bucket range should have no bucket table, got %v", s.Buckets)
	}
}

func TestNewSummarySkipsHidden(t *testing.T) {
	l := summaryLedger()
	hidden := NewTransaction(date.New(2025, 8, 25), "Checking", "INTERNAL", "", MFloat(-999, "USD"))
	hidden.Hidden = true
	hidden.Seal()
	l.Append(hidden)

	r := date.NewRange(date.New(2025, 8, 1), date.New(2025, 8, 31))
	s := NewSummary(l, r, date.Monthly, 2, "USD")
	if got := s.Spending.Decimal().String(); got != "-55.42" {
		t.Errorf("Spending = %s, want -55.42 (hidden row excluded)", got)
	}
}
