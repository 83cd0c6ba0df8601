package renderer

import (
	"fintidy"
)

// TransactionRow is the view of one transaction in a listing.
type TransactionRow struct {
	Date        string
	Description string
	Amount      string
	Account     string
	Category    string // assigned personal category
	Pending     bool
}

// Transactions renders a transaction listing to markdown. categoryOf resolves
// the assigned category of each transaction, typically Ledger.CategoryOf.
func Transactions(txs []fintidy.Transaction, categoryOf func(fintidy.Transaction) string) string {
	rows := make([]TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, TransactionRow{
			Date:        tx.Date.String(),
			Description: tx.Description,
			Amount:      tx.Amount.SignedString(),
			Account:     tx.Account,
			Category:    categoryOf(tx),
			Pending:     tx.Pending,
		})
	}
	return renderTemplate("transactions", "transactions.md", nil, rows)
}
