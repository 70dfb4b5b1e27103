package stats

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/kharcha/kharcha/pkg/expense"
)

type StatsHandler struct {
	service *StatsService
}

func NewStatsHandler(service *StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// ListExpenses serves the record listing: an optional month narrows the
// scope, an optional search query filters by notes/category/payment method.
func (handler *StatsHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" && !expense.ValidMonth(month) {
		http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}
	query := r.URL.Query().Get("search")

	writeJSON(w, handler.service.Search(query, month))
}

func (handler *StatsHandler) RecentExpenses(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, handler.service.RecentExpenses(limit))
}

func (handler *StatsHandler) TopExpenses(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" && !expense.ValidMonth(month) {
		http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, handler.service.TopExpenses(month, limit))
}

func (handler *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, handler.service.Overview())
}

func (handler *StatsHandler) CategoryTotals(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" && !expense.ValidMonth(month) {
		http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}
	writeJSON(w, handler.service.CategoryTotals(month))
}

func (handler *StatsHandler) PaymentMethodTotals(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" && !expense.ValidMonth(month) {
		http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return
	}
	writeJSON(w, handler.service.PaymentMethodTotals(month))
}

func (handler *StatsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, handler.service.MonthlyTrends())
}

func (handler *StatsHandler) AllMonths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, handler.service.AllMonths())
}

func (handler *StatsHandler) MonthSummary(w http.ResponseWriter, r *http.Request) {
	month, ok := monthVar(w, r)
	if !ok {
		return
	}
	writeJSON(w, handler.service.MonthSummary(month))
}

func (handler *StatsHandler) MonthExpenses(w http.ResponseWriter, r *http.Request) {
	month, ok := monthVar(w, r)
	if !ok {
		return
	}
	writeJSON(w, handler.service.Search("", month))
}

func (handler *StatsHandler) MonthCategories(w http.ResponseWriter, r *http.Request) {
	month, ok := monthVar(w, r)
	if !ok {
		return
	}
	writeJSON(w, handler.service.ExpensesByCategory(month))
}

func monthVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := mux.Vars(r)["month"]
	if !expense.ValidMonth(month) {
		http.Error(w, "Invalid month, expected YYYY-MM", http.StatusBadRequest)
		return "", false
	}
	return month, true
}

func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
