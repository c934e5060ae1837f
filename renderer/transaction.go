package renderer

import (
	"fmt"

	"github.com/etnz/cashbook"
)

// Transaction renders a record to a one line sentence.
func Transaction(tx cashbook.Transaction) string {
	switch v := tx.(type) {
	case cashbook.Income:
		if v.Source != "" {
			return fmt.Sprintf("Received %s from %s", v.Amount, v.Source)
		}
		return fmt.Sprintf("Received %s", v.Amount)
	case cashbook.Expense:
		return fmt.Sprintf("Spent %s on %s", v.Amount, v.Category)
	case cashbook.Investment:
		return fmt.Sprintf("Invested %s in %s at %s for %d years", v.Amount, v.Name(), percent(v.InitialRate), v.TermYears)
	default:
		return string(tx.What())
	}
}

// TransactionRow is one line of the transactions report.
type TransactionRow struct {
	Date        string
	Kind        string
	Description string
	Details     string
	Amount      string
	Account     string
}

// TransactionsReport is the view rendered by Transactions.
type TransactionsReport struct {
	Title string
	Rows  []TransactionRow
}

// NewTransactionsReport prepares txs, newest first. accounts resolves account
// IDs to names, unknown IDs are shown as is.
func NewTransactionsReport(title string, txs []cashbook.Transaction, accounts []cashbook.Account) *TransactionsReport {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	r := &TransactionsReport{Title: title}
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		account := tx.Account()
		if name, ok := names[account]; ok {
			account = name
		}
		amount := tx.Value().String()
		if tx.What() == cashbook.KindExpense {
			amount = tx.Value().Neg().String()
		}
		r.Rows = append(r.Rows, TransactionRow{
			Date:        tx.When().String(),
			Kind:        string(tx.What()),
			Description: tx.Memo(),
			Details:     Transaction(tx),
			Amount:      amount,
			Account:     account,
		})
	}
	return r
}

// Transactions renders a table of records.
func Transactions(r *TransactionsReport) string {
	return renderTemplate("transactions", r)
}
