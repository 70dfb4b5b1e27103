package monthly

import "github.com/shopspring/decimal"

// NoTopCategory is the sentinel for a month without any expenses.
const NoTopCategory = "None"

// Summary is the cached aggregate for one calendar month, keyed by its
// "YYYY-MM" month key. Salary is the snapshot in effect when the summary
// was first computed for a past month, or the current salary for the
// current month.
type Summary struct {
	Expenses        decimal.Decimal `json:"expenses"`
	Savings         decimal.Decimal `json:"savings"`
	GoalAchievement float64         `json:"goalAchievement"`
	TopCategory     string          `json:"topCategory"`
	Salary          decimal.Decimal `json:"salary"`
	ExpenseCount    int             `json:"expenseCount"`
}
