package renderer

import (
	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
)

// SummaryReport is the view rendered by Summary.
type SummaryReport struct {
	Title            string
	Date             string
	TotalIncome      string
	TotalExpenses    string
	TotalInvestments string
	NetBalance       string
	MonthlyInterest  string
	Accounts         []AccountRow
}

// AccountRow is one line of the accounts table.
type AccountRow struct {
	Name string
	ID   string
}

// NewSummaryReport prepares s as computed on day.
func NewSummaryReport(title string, s cashbook.Summary, on date.Date, accounts []cashbook.Account) *SummaryReport {
	return &SummaryReport{
		Title:            title,
		Date:             on.String(),
		TotalIncome:      s.TotalIncome.String(),
		TotalExpenses:    s.TotalExpenses.String(),
		TotalInvestments: s.TotalInvestments.String(),
		NetBalance:       s.NetBalance.String(),
		MonthlyInterest:  s.MonthlyInterest.Round(cashbook.CurrencyPrecision).String(),
		Accounts:         accountRows(accounts),
	}
}

// Summary renders the totals of a book, with its accounts when there are any.
func Summary(r *SummaryReport) string {
	return renderTemplate("summary", r)
}

// Accounts renders the list of accounts.
func Accounts(accounts []cashbook.Account) string {
	return renderTemplate("accounts", struct{ Accounts []AccountRow }{accountRows(accounts)})
}

func accountRows(accounts []cashbook.Account) []AccountRow {
	rows := make([]AccountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, AccountRow{Name: a.Name, ID: a.ID})
	}
	return rows
}
