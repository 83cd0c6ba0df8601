package fintidy

import (
	"testing"

	"fintidy/date"
)

func sampleTx() Transaction {
	tx := NewTransaction(date.New(2025, 8, 20), "Checking", "TRADER JOES #552", "Groceries", MFloat(-42.17, "USD"))
	tx.Institution = "Fidelity"
	tx.Source = "2025-08.csv"
	return tx
}

func TestFingerprintLength(t *testing.T) {
	tx := sampleTx()
	if got := len(tx.ContentKey()); got != fingerprintLen {
		t.Errorf("ContentKey length = %d, want %d", got, fingerprintLen)
	}
	if got := len(tx.RowKey()); got != fingerprintLen {
		t.Errorf("RowKey length = %d, want %d", got, fingerprintLen)
	}
}

func TestContentKeyIgnoresSource(t *testing.T) {
	a, b := sampleTx(), sampleTx()
	b.Source = "2025-09.csv"
	if a.ContentKey() != b.ContentKey() {
		t.Errorf("ContentKey should not depend on the source file: %q != %q", a.ContentKey(), b.ContentKey())
	}
	if a.RowKey() == b.RowKey() {
		t.Errorf("RowKey should depend on the source file, both are %q", a.RowKey())
	}
}

func TestKeysChangeWithContent(t *testing.T) {
	a, b := sampleTx(), sampleTx()
	b.Description = "CHIPOTLE 1337"
	if a.ContentKey() == b.ContentKey() {
		t.Errorf("different rows share ContentKey %q", a.ContentKey())
	}
}

func TestSealFreezesKeys(t *testing.T) {
	tx := sampleTx()
	tx.Seal()
	before := tx.ContentKey()

	// Coalescing changes the amount after sealing; identity must not move.
	tx.Amount = tx.Amount.Add(MFloat(-42.17, "USD"))
	if got := tx.ContentKey(); got != before {
		t.Errorf("sealed ContentKey moved from %q to %q after amount change", before, got)
	}
}

func TestRowID(t *testing.T) {
	if got := RowID("ab12f", 2); got != "ab12f_2" {
		t.Errorf("RowID = %q, want %q", got, "ab12f_2")
	}
}
