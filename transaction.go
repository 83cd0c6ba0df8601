package fintidy

import (
	"fintidy/date"
)

// Origin tells how a category assignment was decided.
type Origin string

const (
	OriginRule   Origin = "rule"
	OriginLLM    Origin = "llm"
	OriginManual Origin = "manual"
)

// Extra is a column the importer did not recognize, preserved by name so it
// still participates in fingerprinting.
type Extra struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Transaction is a single cleaned row from a Fidelity Full View export.
type Transaction struct {
	Date        date.Date // posting date
	Account     string    // account the transaction belongs to
	Description string    // raw statement description
	Category    string    // category assigned by the institution
	Amount      Money     // signed: debits negative, credits positive
	Institution string
	Hidden      bool    // "Is Hidden" flag from the export
	Pending     bool    // "Is Pending" flag from the export
	Source      string  // export file name the row came from
	Extras      []Extra // unrecognized columns, in export order

	// keys sealed at import time, see Seal.
	contentKey string
	rowKey     string
}

// NewTransaction creates a transaction with the main columns set. Intended for
// tests; imports go through ReadExport.
func NewTransaction(day date.Date, account, description, category string, amount Money) Transaction {
	return Transaction{
		Date:        day,
		Account:     account,
		Description: description,
		Category:    category,
		Amount:      amount,
	}
}

// Equal reports whether two transactions carry the same content, regardless of
// the export file they came from.
func (t Transaction) Equal(o Transaction) bool {
	return t.ContentKey() == o.ContentKey()
}

// Assignment records the personal category decided for a transaction,
// identified by its content fingerprint.
type Assignment struct {
	Fingerprint string    `json:"fingerprint"`
	Category    string    `json:"category"`
	Origin      Origin    `json:"origin"`
	On          date.Date `json:"on"`
}
