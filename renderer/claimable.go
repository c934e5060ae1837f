package renderer

import (
	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
)

// ClaimableRow is one line of the claimable income report.
type ClaimableRow struct {
	Investment string
	Period     string
	Payable    string
	Rate       string
	Amount     string
	DueIn      string
}

// ClaimableReport is the view rendered by Claimable.
type ClaimableReport struct {
	Date     string
	Due      []ClaimableRow
	Upcoming []ClaimableRow
	DueTotal string
	Monthly  string
}

// NewClaimableReport prepares the report of items on day. monthly is the
// current monthly interest of all running certificates.
func NewClaimableReport(items []cashbook.ClaimableIncome, on date.Date, monthly cashbook.Money) *ClaimableReport {
	r := &ClaimableReport{Date: on.String(), Monthly: monthly.Round(cashbook.CurrencyPrecision).String()}
	var total cashbook.Money
	for _, item := range items {
		amount := item.Period.Income.Round(cashbook.CurrencyPrecision)
		row := ClaimableRow{
			Investment: item.Investment.Name(),
			Period:     item.Period.ID.String(),
			Payable:    item.Period.Payable.String(),
			Rate:       percent(item.Period.Rate),
			Amount:     amount.String(),
		}
		switch item.Status {
		case cashbook.Due:
			r.Due = append(r.Due, row)
			total = total.Add(amount)
		case cashbook.Upcoming:
			row.DueIn = days(item.DaysUntilDue)
			r.Upcoming = append(r.Upcoming, row)
		}
	}
	r.DueTotal = total.String()
	return r
}

// Claimable renders the due and upcoming income periods.
func Claimable(r *ClaimableReport) string {
	return renderTemplate("claimable", r)
}
