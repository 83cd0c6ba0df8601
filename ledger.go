package fintidy

import (
	"iter"
	"sort"

	"fintidy/date"
)

// Ledger holds the cleaned transactions in chronological order, along with
// the category assignments keyed by content fingerprint.
type Ledger struct {
	transactions []Transaction
	present      map[string]bool       // content keys already in the ledger
	assignments  map[string]Assignment // by content fingerprint, latest wins
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		present:     make(map[string]bool),
		assignments: make(map[string]Assignment),
	}
}

// Append adds a transaction to the ledger. It returns false when a transaction
// with the same content is already recorded, so re-importing an overlapping
// export is a no-op.
func (l *Ledger) Append(tx Transaction) bool {
	key := tx.ContentKey()
	if l.present[key] {
		return false
	}
	l.present[key] = true
	l.transactions = append(l.transactions, tx)
	return true
}

// Assign records a category assignment. A later assignment for the same
// fingerprint overrides the earlier one.
func (l *Ledger) Assign(a Assignment) {
	l.assignments[a.Fingerprint] = a
}

// AssignmentOf returns the assignment recorded for the transaction, if any.
func (l *Ledger) AssignmentOf(tx Transaction) (Assignment, bool) {
	a, ok := l.assignments[tx.ContentKey()]
	return a, ok
}

// CategoryOf returns the personal category of the transaction, or
// Uncategorized when nothing assigned one yet.
func (l *Ledger) CategoryOf(tx Transaction) string {
	if a, ok := l.assignments[tx.ContentKey()]; ok {
		return a.Category
	}
	return Uncategorized
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over all transactions in ledger order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Assignments returns all assignments sorted by fingerprint.
func (l *Ledger) Assignments() []Assignment {
	out := make([]Assignment, 0, len(l.assignments))
	for _, a := range l.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fingerprint < out[j].Fingerprint })
	return out
}

// Unassigned returns the transactions with no category assignment yet, hidden
// rows excluded.
func (l *Ledger) Unassigned() []Transaction {
	var out []Transaction
	for _, tx := range l.transactions {
		if tx.Hidden {
			continue
		}
		if _, ok := l.assignments[tx.ContentKey()]; !ok {
			out = append(out, tx)
		}
	}
	return out
}

// Select returns the transactions within the range (a zero range means all)
// whose assigned category is in the given subtree ("" means all).
func (l *Ledger) Select(r date.Range, subtree string) []Transaction {
	var out []Transaction
	for _, tx := range l.transactions {
		if !r.IsZero() && !r.Contains(tx.Date) {
			continue
		}
		if !InSubtree(l.CategoryOf(tx), subtree) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SortByDate orders the transactions chronologically. The sort is stable so
// rows of one export day keep their file order.
func (l *Ledger) SortByDate() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// Coalesce merges rows that share a RowKey, i.e. literally identical rows
// within one export file. Amounts are summed, every other field keeps its
// first value. Order of first appearance is preserved.
func Coalesce(rows []Transaction) []Transaction {
	merged := make([]Transaction, 0, len(rows))
	index := make(map[string]int)
	for _, tx := range rows {
		key := tx.RowKey()
		if i, ok := index[key]; ok {
			merged[i].Amount = merged[i].Amount.Add(tx.Amount)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, tx)
	}
	return merged
}

// Dedupe drops rows whose content was already seen in an earlier file,
// keeping the first occurrence. Rows must already be coalesced.
func Dedupe(rows []Transaction) []Transaction {
	kept := make([]Transaction, 0, len(rows))
	seen := make(map[string]bool)
	for _, tx := range rows {
		key := tx.ContentKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, tx)
	}
	return kept
}
