package expense

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validExpense() Expense {
	return Expense{
		Amount:        decimal.NewFromInt(1500),
		Category:      "Food & Dining",
		Date:          "2024-06-05",
		PaymentMethod: "Cash",
		Notes:         "lunch",
	}
}

func TestExpense_Validate(t *testing.T) {
	t.Run("should accept a valid expense", func(t *testing.T) {
		assert.NoError(t, validExpense().Validate())
	})

	t.Run("should accept an empty payment method", func(t *testing.T) {
		e := validExpense()
		e.PaymentMethod = ""
		assert.NoError(t, e.Validate())
	})

	t.Run("should reject a zero amount", func(t *testing.T) {
		e := validExpense()
		e.Amount = decimal.Zero
		assert.ErrorIs(t, e.Validate(), ErrInvalidAmount)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		e := validExpense()
		e.Amount = decimal.NewFromInt(-10)
		assert.ErrorIs(t, e.Validate(), ErrInvalidAmount)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		e := validExpense()
		e.Category = "Gambling"
		assert.ErrorIs(t, e.Validate(), ErrUnknownCategory)
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		e := validExpense()
		e.Date = "05-06-2024"
		assert.ErrorIs(t, e.Validate(), ErrInvalidDate)
	})

	t.Run("should reject an unknown payment method", func(t *testing.T) {
		e := validExpense()
		e.PaymentMethod = "Barter"
		assert.ErrorIs(t, e.Validate(), ErrUnknownPaymentMethod)
	})
}

func TestPatch_Validate(t *testing.T) {
	t.Run("should accept an empty patch", func(t *testing.T) {
		assert.NoError(t, Patch{}.Validate())
	})

	t.Run("should reject a non-positive amount", func(t *testing.T) {
		amount := decimal.Zero
		assert.ErrorIs(t, Patch{Amount: &amount}.Validate(), ErrInvalidAmount)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		category := "Gambling"
		assert.ErrorIs(t, Patch{Category: &category}.Validate(), ErrUnknownCategory)
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		date := "June 5"
		assert.ErrorIs(t, Patch{Date: &date}.Validate(), ErrInvalidDate)
	})
}

func TestMonthOf(t *testing.T) {
	t.Run("should extract the month key", func(t *testing.T) {
		month, ok := MonthOf("2024-06-05")
		assert.True(t, ok)
		assert.Equal(t, "2024-06", month)
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		_, ok := MonthOf("2024-06-XX")
		assert.False(t, ok)
	})

	t.Run("should not match on prefix alone", func(t *testing.T) {
		// "2024-06" is a month key, not a date; a prefix comparison would
		// have accepted it.
		_, ok := MonthOf("2024-06")
		assert.False(t, ok)
	})
}

func TestExpense_InMonth(t *testing.T) {
	e := validExpense()
	assert.True(t, e.InMonth("2024-06"))
	assert.False(t, e.InMonth("2024-07"))

	e.Date = "garbage"
	assert.False(t, e.InMonth("2024-06"))
}

func TestValidMonth(t *testing.T) {
	assert.True(t, ValidMonth("2024-06"))
	assert.False(t, ValidMonth("2024-6"))
	assert.False(t, ValidMonth("2024-13"))
	assert.False(t, ValidMonth("June 2024"))
}
