package stats

import (
	"github.com/kharcha/kharcha/pkg/expense"
	"github.com/kharcha/kharcha/pkg/monthly"
	"github.com/shopspring/decimal"
)

// stubExpenses is an in-memory ExpenseReader for tests.
type stubExpenses struct {
	records     []expense.Expense
	salary      decimal.Decimal
	savingsGoal decimal.Decimal
}

func (s *stubExpenses) All() []expense.Expense {
	out := make([]expense.Expense, len(s.records))
	copy(out, s.records)
	return out
}

func (s *stubExpenses) ForMonth(month string) []expense.Expense {
	out := make([]expense.Expense, 0)
	for _, e := range s.records {
		if e.InMonth(month) {
			out = append(out, e)
		}
	}
	return out
}

func (s *stubExpenses) Salary() decimal.Decimal {
	return s.salary
}

func (s *stubExpenses) SavingsGoal() decimal.Decimal {
	return s.savingsGoal
}

// stubIndex is an in-memory SummaryReader for tests.
type stubIndex struct {
	months map[string]monthly.Summary
}

func (s *stubIndex) Summary(month string) (monthly.Summary, bool) {
	summary, ok := s.months[month]
	return summary, ok
}

func (s *stubIndex) Snapshot() map[string]monthly.Summary {
	out := make(map[string]monthly.Summary, len(s.months))
	for month, summary := range s.months {
		out[month] = summary
	}
	return out
}
