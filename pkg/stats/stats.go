package stats

import (
	"github.com/shopspring/decimal"
)

// Overview is the current-month snapshot behind the dashboard, computed
// fresh on every call.
type Overview struct {
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	AvgDailyExpense decimal.Decimal `json:"avgDailyExpense"`
	DailyBudget     decimal.Decimal `json:"dailyBudget"`
	Savings         decimal.Decimal `json:"savings"`
	SavingsProgress float64         `json:"savingsProgress"`
	ExpenseCount    int             `json:"expenseCount"`
	RemainingBudget decimal.Decimal `json:"remainingBudget"`
	DaysLeft        int             `json:"daysLeft"`
}

// MonthSummary is the on-demand summary for one month, computed from the
// records rather than served from the cache.
type MonthSummary struct {
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	Savings         decimal.Decimal `json:"savings"`
	GoalAchievement float64         `json:"goalAchievement"`
	ExpenseCount    int             `json:"expenseCount"`
	Salary          decimal.Decimal `json:"salary"`
	AvgDailyExpense decimal.Decimal `json:"avgDailyExpense"`
}

// Trends carries parallel sequences for the trends chart, sorted ascending
// by month key.
type Trends struct {
	Months   []string          `json:"months"`
	Expenses []decimal.Decimal `json:"expensesData"`
	Savings  []decimal.Decimal `json:"savingsData"`
}

// MonthData is one row of the month-by-month listing, most recent first.
type MonthData struct {
	Month           string          `json:"month"`
	FormattedMonth  string          `json:"formattedMonth"`
	Expenses        decimal.Decimal `json:"expenses"`
	Savings         decimal.Decimal `json:"savings"`
	Salary          decimal.Decimal `json:"salary"`
	GoalAchievement float64         `json:"goalAchievement"`
	TopCategory     string          `json:"topCategory"`
	ExpenseCount    int             `json:"expenseCount"`
}
