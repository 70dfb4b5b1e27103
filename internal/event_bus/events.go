package event_bus

const (
	ExpenseAdded    EventType = "expense.added"
	ExpenseUpdated  EventType = "expense.updated"
	ExpenseDeleted  EventType = "expense.deleted"
	SettingsUpdated EventType = "settings.updated"
	DataCleared     EventType = "data.cleared"
)

// ExpenseMutated is the payload of the three expense.* events.
type ExpenseMutated struct {
	ID string
	// Months lists the "YYYY-MM" keys whose cached summaries are affected.
	// A date-changing update carries both the old and the new month.
	Months []string
}
