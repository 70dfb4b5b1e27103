package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/kharcha/kharcha/internal/utils"
	"github.com/kharcha/kharcha/pkg/expense"
	"github.com/kharcha/kharcha/pkg/monthly"
	"github.com/shopspring/decimal"
)

// ExpenseReader is the record-store surface the derivations read from.
type ExpenseReader interface {
	All() []expense.Expense
	ForMonth(month string) []expense.Expense
	Salary() decimal.Decimal
	SavingsGoal() decimal.Decimal
}

// SummaryReader is the monthly-index surface the trend derivations read from.
type SummaryReader interface {
	Summary(month string) (monthly.Summary, bool)
	Snapshot() map[string]monthly.Summary
}

// StatsService is the derivation engine: pure read-side computations over
// the record-store snapshot. Functions that depend on "the current month"
// resolve it through the injected clock.
type StatsService struct {
	expenses ExpenseReader
	index    SummaryReader
	clock    utils.Clock
}

func NewStatsService(expenses ExpenseReader, index SummaryReader, clock utils.Clock) *StatsService {
	return &StatsService{expenses: expenses, index: index, clock: clock}
}

func (s *StatsService) currentMonth() string {
	return expense.MonthKey(s.clock.Now())
}

// monthOrCurrent falls back to the current month when no month was given.
func (s *StatsService) monthOrCurrent(month string) string {
	if month == "" {
		return s.currentMonth()
	}
	return month
}

func (s *StatsService) daysInCurrentMonth() int {
	now := s.clock.Now()
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

func (s *StatsService) daysPassedInMonth() int {
	return s.clock.Now().Day()
}

// DailyBudget is the salary spread evenly over the days of the current
// month, floored to a whole amount. Zero when there is no salary.
func (s *StatsService) DailyBudget() decimal.Decimal {
	salary := s.expenses.Salary()
	if !salary.IsPositive() {
		return decimal.Zero
	}
	days := decimal.NewFromInt(int64(s.daysInCurrentMonth()))
	return salary.Div(days).Floor()
}

// CurrentMonthTotal sums the amounts of the current month's records.
func (s *StatsService) CurrentMonthTotal() decimal.Decimal {
	return sumAmounts(s.expenses.ForMonth(s.currentMonth()))
}

// Savings is salary minus the current month's total; it may be negative.
func (s *StatsService) Savings() decimal.Decimal {
	return s.expenses.Salary().Sub(s.CurrentMonthTotal())
}

// AvgDailyExpense divides the current month's total by the days elapsed so
// far (including today). Zero when the month has no expenses yet.
func (s *StatsService) AvgDailyExpense() decimal.Decimal {
	records := s.expenses.ForMonth(s.currentMonth())
	if len(records) == 0 {
		return decimal.Zero
	}
	daysPassed := decimal.NewFromInt(int64(s.daysPassedInMonth()))
	return sumAmounts(records).Div(daysPassed)
}

// SavingsProgress is the current savings as a percentage of the savings
// goal, clamped to 100. Zero when no goal is set. Negative savings yield a
// negative percentage.
func (s *StatsService) SavingsProgress() float64 {
	goal := s.expenses.SavingsGoal()
	if !goal.IsPositive() {
		return 0
	}
	progress := s.Savings().Div(goal).InexactFloat64() * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// RemainingToSave is how far the current savings are from the goal, never
// negative.
func (s *StatsService) RemainingToSave() decimal.Decimal {
	remaining := s.expenses.SavingsGoal().Sub(s.Savings())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// CategoryTotals sums amounts per category for the given month (current
// month when empty). Only categories present in the data appear.
func (s *StatsService) CategoryTotals(month string) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, e := range s.expenses.ForMonth(s.monthOrCurrent(month)) {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// PaymentMethodTotals sums amounts per payment method for the given month.
// Records without a method count as Cash.
func (s *StatsService) PaymentMethodTotals(month string) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, e := range s.expenses.ForMonth(s.monthOrCurrent(month)) {
		method := e.PaymentMethod
		if method == "" {
			method = expense.DefaultPaymentMethod
		}
		totals[method] = totals[method].Add(e.Amount)
	}
	return totals
}

// ExpensesByCategory groups (not sums) the month's records per category.
func (s *StatsService) ExpensesByCategory(month string) map[string][]expense.Expense {
	groups := map[string][]expense.Expense{}
	for _, e := range s.expenses.ForMonth(s.monthOrCurrent(month)) {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// TopExpenses returns the month's records sorted by descending amount,
// ties keeping store order, capped at limit (5 when limit <= 0).
func (s *StatsService) TopExpenses(month string, limit int) []expense.Expense {
	if limit <= 0 {
		limit = 5
	}
	records := s.expenses.ForMonth(s.monthOrCurrent(month))
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Amount.GreaterThan(records[j].Amount)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

// RecentExpenses returns the most recently created records across all
// months, capped at limit (10 when limit <= 0). Records without a creation
// timestamp fall back to their date.
func (s *StatsService) RecentExpenses(limit int) []expense.Expense {
	if limit <= 0 {
		limit = 10
	}
	records := s.expenses.All()
	sort.SliceStable(records, func(i, j int) bool {
		return recordInstant(records[i]).After(recordInstant(records[j]))
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

// Search returns the records whose notes, category or payment method
// contain the query, case-insensitively. An empty query matches every
// record. A month narrows the scope; otherwise all records are searched.
func (s *StatsService) Search(query string, month string) []expense.Expense {
	var records []expense.Expense
	if month != "" {
		records = s.expenses.ForMonth(month)
	} else {
		records = s.expenses.All()
	}

	needle := strings.ToLower(query)
	matches := make([]expense.Expense, 0)
	for _, e := range records {
		if strings.Contains(strings.ToLower(e.Notes), needle) ||
			strings.Contains(strings.ToLower(e.Category), needle) ||
			strings.Contains(strings.ToLower(e.PaymentMethod), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// MonthSummary computes a month's summary directly from the records. The
// salary is the cached snapshot for that month when one exists, otherwise
// the current salary. The average daily expense approximates the month as
// 30 days.
func (s *StatsService) MonthSummary(month string) MonthSummary {
	records := s.expenses.ForMonth(month)
	total := sumAmounts(records)

	salary := s.expenses.Salary()
	if cached, ok := s.index.Summary(month); ok {
		salary = cached.Salary
	}
	savings := salary.Sub(total)

	goal := s.expenses.SavingsGoal()
	achievement := 0.0
	if goal.IsPositive() {
		achievement = savings.Div(goal).InexactFloat64() * 100
		if achievement > 100 {
			achievement = 100
		}
	}

	avgDaily := decimal.Zero
	if len(records) > 0 {
		avgDaily = total.Div(decimal.NewFromInt(30))
	}

	return MonthSummary{
		TotalExpenses:   total,
		Savings:         savings,
		GoalAchievement: achievement,
		ExpenseCount:    len(records),
		Salary:          salary,
		AvgDailyExpense: avgDaily,
	}
}

// MonthlyTrends returns the cached months as parallel label/expense/savings
// sequences, ascending by month key.
func (s *StatsService) MonthlyTrends() Trends {
	snapshot := s.index.Snapshot()
	months := make([]string, 0, len(snapshot))
	for month := range snapshot {
		months = append(months, month)
	}
	sort.Strings(months)

	trends := Trends{
		Months:   make([]string, 0, len(months)),
		Expenses: make([]decimal.Decimal, 0, len(months)),
		Savings:  make([]decimal.Decimal, 0, len(months)),
	}
	for _, month := range months {
		summary := snapshot[month]
		trends.Months = append(trends.Months, expense.FormatMonthYear(month))
		trends.Expenses = append(trends.Expenses, summary.Expenses)
		trends.Savings = append(trends.Savings, summary.Savings)
	}
	return trends
}

// AllMonths returns the cached per-month summaries, most recent month first.
func (s *StatsService) AllMonths() []MonthData {
	snapshot := s.index.Snapshot()
	months := make([]string, 0, len(snapshot))
	for month := range snapshot {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	out := make([]MonthData, 0, len(months))
	for _, month := range months {
		summary := snapshot[month]
		salary := summary.Salary
		if salary.IsZero() {
			salary = s.expenses.Salary()
		}
		topCategory := summary.TopCategory
		if topCategory == "" {
			topCategory = monthly.NoTopCategory
		}
		out = append(out, MonthData{
			Month:           month,
			FormattedMonth:  expense.FormatMonthYear(month),
			Expenses:        summary.Expenses,
			Savings:         summary.Savings,
			Salary:          salary,
			GoalAchievement: summary.GoalAchievement,
			TopCategory:     topCategory,
			ExpenseCount:    summary.ExpenseCount,
		})
	}
	return out
}

// Overview assembles the dashboard snapshot for the current month.
func (s *StatsService) Overview() Overview {
	total := s.CurrentMonthTotal()
	return Overview{
		TotalExpenses:   total,
		AvgDailyExpense: s.AvgDailyExpense(),
		DailyBudget:     s.DailyBudget(),
		Savings:         s.Savings(),
		SavingsProgress: s.SavingsProgress(),
		ExpenseCount:    len(s.expenses.ForMonth(s.currentMonth())),
		RemainingBudget: s.expenses.Salary().Sub(total),
		DaysLeft:        s.daysInCurrentMonth() - s.daysPassedInMonth(),
	}
}

func sumAmounts(records []expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

func recordInstant(e expense.Expense) time.Time {
	if e.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			return t
		}
	}
	t, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
