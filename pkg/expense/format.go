package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatPKR renders an amount as "Rs. " followed by the value rounded to
// the nearest rupee with comma thousands separators.
func FormatPKR(amount decimal.Decimal) string {
	rounded := amount.Round(0).String()

	negative := strings.HasPrefix(rounded, "-")
	digits := strings.TrimPrefix(rounded, "-")

	var b strings.Builder
	b.WriteString("Rs. ")
	if negative {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDate renders a YYYY-MM-DD record date as "Jan 2, 2006". Malformed
// dates are returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// FormatMonthYear renders a "YYYY-MM" month key as "January 2006".
// Malformed keys are returned unchanged.
func FormatMonthYear(month string) string {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}
