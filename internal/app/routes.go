package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Expense records
	r.HandleFunc("/api/expense", deps.StatsHandler.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expense", deps.ExpenseHandler.Register).Methods("POST")
	r.HandleFunc("/api/expense/export", deps.ExpenseHandler.Export).Methods("GET")
	r.HandleFunc("/api/expense/recent", deps.StatsHandler.RecentExpenses).Methods("GET")
	r.HandleFunc("/api/expense/top", deps.StatsHandler.TopExpenses).Methods("GET")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expense/{id}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// Settings
	r.HandleFunc("/api/settings", deps.ExpenseHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/settings", deps.ExpenseHandler.UpdateSettings).Methods("PUT")

	// Stats
	r.HandleFunc("/api/stats/overview", deps.StatsHandler.Overview).Methods("GET")
	r.HandleFunc("/api/stats/categories", deps.StatsHandler.CategoryTotals).Methods("GET")
	r.HandleFunc("/api/stats/payment-methods", deps.StatsHandler.PaymentMethodTotals).Methods("GET")
	r.HandleFunc("/api/stats/trends", deps.StatsHandler.Trends).Methods("GET")

	// Monthly records
	r.HandleFunc("/api/months", deps.StatsHandler.AllMonths).Methods("GET")
	r.HandleFunc("/api/months/{month}", deps.StatsHandler.MonthSummary).Methods("GET")
	r.HandleFunc("/api/months/{month}/expenses", deps.StatsHandler.MonthExpenses).Methods("GET")
	r.HandleFunc("/api/months/{month}/categories", deps.StatsHandler.MonthCategories).Methods("GET")

	// Danger zone
	r.HandleFunc("/api/data", deps.ExpenseHandler.ClearData).Methods("DELETE")
}
