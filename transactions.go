package cashbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/cashbook/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the shape of a ledger record.
type Kind string

// Record kinds, also used as the "kind" discriminator in ledger files.
const (
	KindIncome     Kind = "income"
	KindExpense    Kind = "expense"
	KindInvestment Kind = "investment"
	KindAccount    Kind = "account"
)

// Transaction is the part shared by every kind of ledger record: a date, a
// description, an amount and an optional account.
type Transaction interface {
	What() Kind               // What returns the kind of record.
	When() date.Date          // When returns the date of the record.
	Identifier() string       // Identifier returns the unique record ID.
	Value() Money             // Value returns the record amount.
	Account() string          // Account returns the account ID, "" when unassigned.
	Memo() string             // Memo returns the description.
	Validate() (Transaction, error)
}

type baseRecord struct {
	ID          string    // ID is a unique identifier, generated on validation when missing.
	Date        date.Date // Date is the day the record applies to.
	Description string    // Description is free text.
	Amount      Money     // Amount is positive; for an Investment it is the principal.
	AccountID   string    // AccountID optionally links the record to an Account.
}

func (b baseRecord) When() date.Date    { return b.Date }
func (b baseRecord) Identifier() string { return b.ID }
func (b baseRecord) Value() Money       { return b.Amount }
func (b baseRecord) Account() string    { return b.AccountID }
func (b baseRecord) Memo() string       { return b.Description }

// validate checks the shared fields and assigns an ID when missing. The amount
// must be positive, or not negative when allowZero is set.
func (b *baseRecord) validate(allowZero bool) error {
	var errs error
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Date.IsZero() {
		errs = errors.Join(errs, errors.New("date is missing"))
	}
	if strings.TrimSpace(b.Description) == "" {
		errs = errors.Join(errs, errors.New("description is missing"))
	}
	if b.Amount.IsNegative() || (!allowZero && b.Amount.IsZero()) {
		errs = errors.Join(errs, fmt.Errorf("amount must be positive, got %s", b.Amount.Value()))
	}
	if err := ValidateCurrency(b.Amount.Currency()); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}

func (b baseRecord) marshal(w *jsonObjectWriter, kind Kind) {
	w.Append("kind", kind)
	w.Append("id", b.ID)
	w.Append("date", b.Date)
	w.Append("description", b.Description)
	w.EmbedFrom(b.Amount)
	w.Optional("account", b.AccountID)
}

// baseJSON is the decoding counterpart of baseRecord.marshal.
type baseJSON struct {
	Kind        Kind      `json:"kind"`
	ID          string    `json:"id"`
	Date        date.Date `json:"date"`
	Description string    `json:"description"`
	amountCmd
	AccountID string `json:"account,omitempty"`
}

func (j baseJSON) record() baseRecord {
	return baseRecord{ID: j.ID, Date: j.Date, Description: j.Description, Amount: j.Money(), AccountID: j.AccountID}
}

// --- Income ---

// Income is money received, either entered by hand or produced by claiming
// a certificate's monthly interest.
type Income struct {
	baseRecord
	Source     string // Source names where the money comes from.
	Investment string // Investment is the ID of the certificate paying this income, if any.
}

// NewIncome creates a new Income record.
func NewIncome(day date.Date, description string, amount Money, source string) Income {
	return Income{
		baseRecord: baseRecord{Date: day, Description: description, Amount: amount},
		Source:     source,
	}
}

func (t Income) What() Kind { return KindIncome }

// Validate checks the income fields and returns a copy with an ID assigned.
// Interest paid by an investment may round to zero, other incomes must be
// positive.
func (t Income) Validate() (Transaction, error) {
	err := t.baseRecord.validate(t.Investment != "")
	if err != nil {
		err = fmt.Errorf("invalid income on %v: %w", t.Date, err)
	}
	return t, err
}

// MarshalJSON implements the json.Marshaler interface for Income.
func (t Income) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.marshal(&w, KindIncome)
	w.Optional("source", t.Source)
	w.Optional("investment", t.Investment)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Income.
func (t *Income) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseJSON
		Source     string `json:"source"`
		Investment string `json:"investment"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseRecord = temp.record()
	t.Source = temp.Source
	t.Investment = temp.Investment
	return nil
}

// --- Expense ---

// Expense is money spent.
type Expense struct {
	baseRecord
	Category string // Category groups expenses, e.g. "Groceries".
}

// NewExpense creates a new Expense record.
func NewExpense(day date.Date, description string, amount Money, category string) Expense {
	return Expense{
		baseRecord: baseRecord{Date: day, Description: description, Amount: amount},
		Category:   category,
	}
}

func (t Expense) What() Kind { return KindExpense }

// Validate checks the expense fields and returns a copy with an ID assigned.
func (t Expense) Validate() (Transaction, error) {
	err := t.baseRecord.validate(false)
	if strings.TrimSpace(t.Category) == "" {
		err = errors.Join(err, errors.New("category is missing"))
	}
	if err != nil {
		err = fmt.Errorf("invalid expense on %v: %w", t.Date, err)
	}
	return t, err
}

// MarshalJSON implements the json.Marshaler interface for Expense.
func (t Expense) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.marshal(&w, KindExpense)
	w.Append("category", t.Category)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Expense.
func (t *Expense) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseJSON
		Category string `json:"category"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseRecord = temp.record()
	t.Category = temp.Category
	return nil
}

// --- Investment ---

// StepDown changes the annual rate from the start of contract year YearTrigger onward.
type StepDown struct {
	YearTrigger int             `json:"yearTrigger"`
	NewRate     decimal.Decimal `json:"newRate"`
}

// Investment is a fixed-term certificate paying monthly interest on its principal.
//
// Date is the start date and Amount the principal. Only LastClaimed changes
// after creation, and only forward.
type Investment struct {
	baseRecord
	Certificate string          // Certificate is the certificate's display name.
	InitialRate decimal.Decimal // InitialRate is the annual rate in percent, e.g. 5 for 5%.
	TermYears   int             // TermYears is the length of the term in whole years.
	StepDowns   []StepDown      // StepDowns are the scheduled rate changes.
	LastClaimed date.Month      // LastClaimed is the latest period paid out, zero when none.
}

// NewInvestment creates a new certificate Investment starting on day.
func NewInvestment(day date.Date, certificate string, principal Money, rate decimal.Decimal, termYears int, steps ...StepDown) Investment {
	return Investment{
		baseRecord:  baseRecord{Date: day, Description: certificate, Amount: principal},
		Certificate: certificate,
		InitialRate: rate,
		TermYears:   termYears,
		StepDowns:   steps,
	}
}

func (t Investment) What() Kind { return KindInvestment }

// Principal returns the invested amount.
func (t Investment) Principal() Money { return t.Amount }

// Start returns the start date of the term.
func (t Investment) Start() date.Date { return t.Date }

// TermEnd returns the day the term ends: the start date TermYears later.
func (t Investment) TermEnd() date.Date { return t.Date.AddYears(t.TermYears) }

// Name returns the certificate name, or the description when unnamed.
func (t Investment) Name() string {
	if t.Certificate != "" {
		return t.Certificate
	}
	return t.Description
}

// IsClaimed reports whether the period has already been paid out.
func (t Investment) IsClaimed(period date.Month) bool {
	return !t.LastClaimed.IsZero() && !period.After(t.LastClaimed)
}

// Validate checks the certificate terms and returns a copy with an ID assigned.
func (t Investment) Validate() (Transaction, error) {
	if t.Description == "" {
		t.Description = t.Certificate
	}
	err := t.baseRecord.validate(false)
	if strings.TrimSpace(t.Certificate) == "" {
		err = errors.Join(err, errors.New("certificate name is missing"))
	}
	if t.TermYears <= 0 {
		err = errors.Join(err, fmt.Errorf("term must be at least one year, got %d", t.TermYears))
	}
	if !t.InitialRate.IsPositive() {
		err = errors.Join(err, fmt.Errorf("initial rate must be positive, got %s", t.InitialRate))
	}
	seen := make(map[int]bool)
	for _, s := range t.StepDowns {
		if s.YearTrigger <= 1 || s.YearTrigger > t.TermYears {
			err = errors.Join(err, fmt.Errorf("step-down year %d must be within (1, %d]", s.YearTrigger, t.TermYears))
		}
		if !s.NewRate.IsPositive() {
			err = errors.Join(err, fmt.Errorf("step-down rate for year %d must be positive, got %s", s.YearTrigger, s.NewRate))
		}
		if seen[s.YearTrigger] {
			err = errors.Join(err, fmt.Errorf("step-down year %d is declared twice", s.YearTrigger))
		}
		seen[s.YearTrigger] = true
	}
	if err != nil {
		return t, fmt.Errorf("invalid investment on %v: %w", t.Date, err)
	}
	t.StepDowns = sortedStepDowns(t.StepDowns)
	return t, nil
}

// sortedStepDowns returns a copy of steps sorted by ascending year trigger.
func sortedStepDowns(steps []StepDown) []StepDown {
	sorted := slices.Clone(steps)
	slices.SortStableFunc(sorted, func(a, b StepDown) int { return a.YearTrigger - b.YearTrigger })
	return sorted
}

// MarshalJSON implements the json.Marshaler interface for Investment.
func (t Investment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.marshal(&w, KindInvestment)
	w.Append("certificate", t.Certificate)
	w.Append("initialRate", t.InitialRate)
	w.Append("termYears", t.TermYears)
	w.Optional("stepDowns", t.StepDowns)
	w.Optional("lastClaimed", t.LastClaimed)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Investment.
func (t *Investment) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseJSON
		Certificate string          `json:"certificate"`
		InitialRate decimal.Decimal `json:"initialRate"`
		TermYears   int             `json:"termYears"`
		StepDowns   []StepDown      `json:"stepDowns"`
		LastClaimed date.Month      `json:"lastClaimed"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseRecord = temp.record()
	t.Certificate = temp.Certificate
	t.InitialRate = temp.InitialRate
	t.TermYears = temp.TermYears
	t.StepDowns = temp.StepDowns
	t.LastClaimed = temp.LastClaimed
	return nil
}
