package expense

import "strings"

// CsvExporter renders the full record collection as CSV text. The category,
// payment method and notes fields are always quoted (embedded quotes
// doubled); the amount field is emitted bare.
type CsvExporter struct {
}

func NewCsvExporter() *CsvExporter {
	return &CsvExporter{}
}

func (t *CsvExporter) Render(expenses []Expense) string {
	rows := make([]string, 0, len(expenses)+1)
	rows = append(rows, "Date,Category,Amount (PKR),Payment Method,Notes")

	for _, e := range expenses {
		method := e.PaymentMethod
		if method == "" {
			method = DefaultPaymentMethod
		}
		fields := []string{
			e.Date,
			quote(e.Category),
			e.Amount.String(),
			quote(method),
			quote(e.Notes),
		}
		rows = append(rows, strings.Join(fields, ","))
	}

	return strings.Join(rows, "\n")
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
