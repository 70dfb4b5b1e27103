package expense

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Categories is the fixed set of expense categories.
var Categories = []string{
	"Food & Dining",
	"Transportation",
	"Bills & Utilities",
	"Entertainment",
	"Shopping",
	"Healthcare",
	"Education",
	"Groceries",
	"Personal Care",
	"Other",
}

// PaymentMethods is the fixed set of payment methods. The first entry is
// the default when a record carries none.
var PaymentMethods = []string{
	"Cash",
	"Debit Card",
	"Credit Card",
	"Bank Transfer",
	"Mobile Payment",
	"Online Payment",
}

const DefaultPaymentMethod = "Cash"

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Expense is one logged spending event. The JSON tags double as the
// persisted serialization shape.
type Expense struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          string          `json:"date"` // YYYY-MM-DD, when the expense occurred
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	// Timestamp is the RFC 3339 creation instant, set once by the store.
	Timestamp string `json:"timestamp,omitempty"`
	// LastModified is set on every update and absent until the first edit.
	LastModified string `json:"lastModified,omitempty"`
}

// Patch carries the fields of a partial update. Nil fields are left
// untouched by Store.Update.
type Patch struct {
	Amount        *decimal.Decimal `json:"amount"`
	Category      *string          `json:"category"`
	Date          *string          `json:"date"`
	PaymentMethod *string          `json:"paymentMethod"`
	Notes         *string          `json:"notes"`
}

var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD form")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// Validate checks the caller-side invariants: positive amount, known
// category, parseable date, known (or empty) payment method. The store
// itself never validates.
func (e Expense) Validate() error {
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidCategory(e.Category) {
		return ErrUnknownCategory
	}
	if _, err := time.Parse(dateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.PaymentMethod != "" && !ValidPaymentMethod(e.PaymentMethod) {
		return ErrUnknownPaymentMethod
	}
	return nil
}

// Validate checks every provided field of a partial update.
func (p Patch) Validate() error {
	if p.Amount != nil && !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Category != nil && !ValidCategory(*p.Category) {
		return ErrUnknownCategory
	}
	if p.Date != nil {
		if _, err := time.Parse(dateLayout, *p.Date); err != nil {
			return ErrInvalidDate
		}
	}
	if p.PaymentMethod != nil && *p.PaymentMethod != "" && !ValidPaymentMethod(*p.PaymentMethod) {
		return ErrUnknownPaymentMethod
	}
	return nil
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// MonthOf parses the record date and returns its "YYYY-MM" key. Malformed
// dates belong to no month.
func MonthOf(date string) (string, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", false
	}
	return t.Format(monthLayout), true
}

// InMonth reports whether the expense occurred in the given "YYYY-MM" month.
func (e Expense) InMonth(month string) bool {
	m, ok := MonthOf(e.Date)
	return ok && m == month
}

// MonthKey formats a point in time as its "YYYY-MM" key.
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// ValidMonth reports whether month is a well-formed "YYYY-MM" key.
func ValidMonth(month string) bool {
	_, err := time.Parse(monthLayout, month)
	return err == nil
}
