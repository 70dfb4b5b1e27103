package monthly

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/kharcha/kharcha/internal/event_bus"
	"github.com/kharcha/kharcha/internal/storage"
	"github.com/kharcha/kharcha/internal/utils"
	"github.com/kharcha/kharcha/pkg/expense"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ExpenseReader is the record-store surface the index derives from.
type ExpenseReader interface {
	ForMonth(month string) []expense.Expense
	Salary() decimal.Decimal
	SavingsGoal() decimal.Decimal
}

// Service maintains the cached per-month summaries. It subscribes to the
// mutation events and recomputes every affected month, so an edit to a past
// month's record refreshes that month's entry immediately. The index is a
// derived cache: it can always be rebuilt from the record store.
type Service struct {
	reader  ExpenseReader
	storage storage.Store
	clock   utils.Clock

	mu     sync.RWMutex
	months map[string]Summary
}

func NewService(reader ExpenseReader, st storage.Store, clock utils.Clock) *Service {
	return &Service{
		reader:  reader,
		storage: st,
		clock:   clock,
		months:  map[string]Summary{},
	}
}

// Register subscribes the index to the mutation events.
func (s *Service) Register(bus *event_bus.EventBus) {
	onExpenseEvent := func(e event_bus.Event) error {
		payload, ok := e.Data.(event_bus.ExpenseMutated)
		if !ok {
			log.Debugf("monthly index: unexpected payload %T for event %s", e.Data, e.Type)
			return nil
		}
		s.Recompute(e.Context(), payload.Months...)
		return nil
	}
	bus.Subscribe(event_bus.ExpenseAdded, onExpenseEvent)
	bus.Subscribe(event_bus.ExpenseUpdated, onExpenseEvent)
	bus.Subscribe(event_bus.ExpenseDeleted, onExpenseEvent)
	bus.Subscribe(event_bus.SettingsUpdated, func(e event_bus.Event) error {
		s.Recompute(e.Context(), expense.MonthKey(s.clock.Now()))
		return nil
	})
	bus.Subscribe(event_bus.DataCleared, func(e event_bus.Event) error {
		s.mu.Lock()
		s.months = map[string]Summary{}
		s.mu.Unlock()
		return nil
	})
}

// Load reads the persisted index once at startup, falling back to an empty
// index when the key is absent or unparsable.
func (s *Service) Load(ctx context.Context) {
	raw, found, err := s.storage.Get(ctx, storage.KeyMonthlyData)
	if err != nil || !found {
		return
	}
	var months map[string]Summary
	if err := json.Unmarshal([]byte(raw), &months); err != nil {
		log.Errorf("could not parse persisted monthly index, starting empty: %v", err)
		return
	}

	s.mu.Lock()
	s.months = months
	s.mu.Unlock()
	log.Infof("Loaded monthly summaries for %d months", len(months))
}

// Recompute rebuilds the summaries for the given months from the record
// store and persists the index. Persistence failures are logged and
// swallowed; the in-memory index stays authoritative.
func (s *Service) Recompute(ctx context.Context, months ...string) {
	currentMonth := expense.MonthKey(s.clock.Now())

	s.mu.Lock()
	for _, month := range months {
		s.months[month] = s.compute(month, month == currentMonth)
	}
	raw, err := json.Marshal(s.months)
	s.mu.Unlock()

	if err != nil {
		log.Errorf("could not serialize monthly index: %v", err)
		return
	}
	if err := s.storage.Set(ctx, storage.KeyMonthlyData, string(raw)); err != nil {
		log.Errorf("could not persist monthly index: %v", err)
	}
}

// Summary returns the cached summary for a month.
func (s *Service) Summary(month string) (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.months[month]
	return summary, ok
}

// Snapshot returns a copy of the whole index.
func (s *Service) Snapshot() map[string]Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Summary, len(s.months))
	for month, summary := range s.months {
		out[month] = summary
	}
	return out
}

// compute must be called with the lock held (it reads the previous entry
// to preserve a past month's salary snapshot).
func (s *Service) compute(month string, isCurrent bool) Summary {
	records := s.reader.ForMonth(month)

	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}

	salary := s.reader.Salary()
	if !isCurrent {
		if previous, ok := s.months[month]; ok {
			salary = previous.Salary
		}
	}
	savings := salary.Sub(total)

	goal := s.reader.SavingsGoal()
	achievement := 0.0
	if goal.IsPositive() {
		achievement = savings.Div(goal).InexactFloat64() * 100
		if achievement > 100 {
			achievement = 100
		}
	}

	return Summary{
		Expenses:        total,
		Savings:         savings,
		GoalAchievement: achievement,
		TopCategory:     TopCategory(records),
		Salary:          salary,
		ExpenseCount:    len(records),
	}
}

// TopCategory returns the category with the highest summed amount.
// Totals accumulate in record order; ties are broken in favor of the
// category whose first record appears earliest in the collection.
func TopCategory(records []expense.Expense) string {
	if len(records) == 0 {
		return NoTopCategory
	}

	totals := map[string]decimal.Decimal{}
	order := make([]string, 0)
	for _, e := range records {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	top := order[0]
	for _, category := range order[1:] {
		if totals[category].GreaterThan(totals[top]) {
			top = category
		}
	}
	return top
}
