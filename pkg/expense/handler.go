package expense

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	ID            string          `json:"id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Timestamp     string          `json:"timestamp,omitempty"`
	LastModified  string          `json:"lastModified,omitempty"`
}

type SettingsDTO struct {
	Salary      *decimal.Decimal `json:"salary,omitempty"`
	SavingsGoal *decimal.Decimal `json:"savingsGoal,omitempty"`
}

type Handler struct {
	store    *Store
	exporter *CsvExporter
}

func NewHandler(store *Store, exporter *CsvExporter) *Handler {
	return &Handler{store: store, exporter: exporter}
}

func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e := DTOToExpense(dto)
	if err := e.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created := handler.store.Add(r.Context(), e)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, ok := handler.store.Update(r.Context(), id, patch)
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !handler.store.Delete(r.Context(), id) {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)

	if _, err := w.Write([]byte(handler.exporter.Render(handler.store.All()))); err != nil {
		log.Errorf("failed to write CSV export: %v", err)
	}
}

func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	salary := handler.store.Salary()
	goal := handler.store.SavingsGoal()
	dto := SettingsDTO{Salary: &salary, SavingsGoal: &goal}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if dto.Salary != nil {
		handler.store.SetSalary(r.Context(), *dto.Salary)
	}
	if dto.SavingsGoal != nil {
		handler.store.SetSavingsGoal(r.Context(), *dto.SavingsGoal)
	}

	handler.GetSettings(w, r)
}

func (handler *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	log.Info("Clearing all expense data")
	handler.store.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func ExpenseToDTO(e Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:            e.ID,
		Amount:        e.Amount,
		Category:      e.Category,
		Date:          e.Date,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		Timestamp:     e.Timestamp,
		LastModified:  e.LastModified,
	}
}

func DTOToExpense(dto ExpenseDTO) Expense {
	return Expense{
		Amount:        dto.Amount,
		Category:      dto.Category,
		Date:          dto.Date,
		PaymentMethod: dto.PaymentMethod,
		Notes:         dto.Notes,
	}
}
