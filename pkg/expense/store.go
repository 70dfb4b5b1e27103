package expense

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kharcha/kharcha/internal/event_bus"
	"github.com/kharcha/kharcha/internal/storage"
	"github.com/kharcha/kharcha/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Store owns the expense records and the two monthly scalars (salary,
// savings goal). Every mutation publishes an event on the bus and enqueues
// a persistence write-through; reads always see the in-memory state.
//
// Persistence is fire-and-forget: a single background writer consumes
// coalesced snapshots, so mutations never block on storage and writes never
// reach storage out of order. Write failures are logged and swallowed.
type Store struct {
	storage storage.Store
	bus     *event_bus.EventBus
	clock   utils.Clock

	mu          sync.RWMutex
	records     []Expense
	salary      decimal.Decimal
	savingsGoal decimal.Decimal

	saveCh     chan persistedState
	writerDone chan struct{}
	closeOnce  sync.Once
}

// persistedState is one coalesced snapshot handed to the background writer.
// clear replaces the write with a bulk remove of every persisted key.
type persistedState struct {
	clear        bool
	expensesJSON string
	salary       string
	savingsGoal  string
}

func NewStore(st storage.Store, bus *event_bus.EventBus, clock utils.Clock) *Store {
	s := &Store{
		storage:    st,
		bus:        bus,
		clock:      clock,
		records:    []Expense{},
		saveCh:     make(chan persistedState, 1),
		writerDone: make(chan struct{}),
	}
	go s.writer()
	return s
}

// Load performs the one startup read. A missing or unparsable value falls
// back to its zero value; Load never fails the startup.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, found, err := s.storage.Get(ctx, storage.KeyExpenses); err == nil && found {
		var records []Expense
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			log.Errorf("could not parse persisted expenses, starting empty: %v", err)
		} else if records != nil {
			s.records = records
		}
	}
	s.salary = s.loadScalar(ctx, storage.KeySalary)
	s.savingsGoal = s.loadScalar(ctx, storage.KeySavingsGoal)

	log.Infof("Loaded %d expense records", len(s.records))
}

func (s *Store) loadScalar(ctx context.Context, key string) decimal.Decimal {
	raw, found, err := s.storage.Get(ctx, key)
	if err != nil || !found {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Errorf("could not parse persisted %s %q, falling back to zero: %v", key, raw, err)
		return decimal.Zero
	}
	return value
}

// Add assigns a fresh id and creation timestamp, prepends the record
// (most-recent-first by convention) and returns the stored record.
func (s *Store) Add(ctx context.Context, e Expense) Expense {
	now := s.clock.Now()
	e.ID = uuid.NewString()
	e.Timestamp = now.UTC().Format(time.RFC3339)
	e.LastModified = ""

	s.mu.Lock()
	s.records = append([]Expense{e}, s.records...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, event_bus.ExpenseAdded, e.ID, affectedMonths(now, e.Date))
	s.enqueue(snap)
	return e
}

// Update shallow-merges the provided fields onto the record and stamps
// LastModified. It reports false, mutating nothing, when the id is unknown.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Expense, bool) {
	now := s.clock.Now()

	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Debugf("update of unknown expense %s ignored", id)
		return Expense{}, false
	}

	record := s.records[idx]
	previousDate := record.Date
	if patch.Amount != nil {
		record.Amount = *patch.Amount
	}
	if patch.Category != nil {
		record.Category = *patch.Category
	}
	if patch.Date != nil {
		record.Date = *patch.Date
	}
	if patch.PaymentMethod != nil {
		record.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Notes != nil {
		record.Notes = *patch.Notes
	}
	record.LastModified = now.UTC().Format(time.RFC3339)
	s.records[idx] = record
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, event_bus.ExpenseUpdated, id, affectedMonths(now, previousDate, record.Date))
	s.enqueue(snap)
	return record, true
}

// Delete removes the record with the given id, reporting false when absent.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Debugf("delete of unknown expense %s ignored", id)
		return false
	}
	removed := s.records[idx]
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, event_bus.ExpenseDeleted, id, affectedMonths(s.clock.Now(), removed.Date))
	s.enqueue(snap)
	return true
}

// SetSalary replaces the monthly salary. Any value is accepted; the UI is
// expected to coerce non-numeric input to zero.
func (s *Store) SetSalary(ctx context.Context, value decimal.Decimal) {
	s.mu.Lock()
	s.salary = value
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publishSettings(ctx)
	s.enqueue(snap)
}

// SetSavingsGoal replaces the monthly savings goal.
func (s *Store) SetSavingsGoal(ctx context.Context, value decimal.Decimal) {
	s.mu.Lock()
	s.savingsGoal = value
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publishSettings(ctx)
	s.enqueue(snap)
}

// ClearAll resets records and scalars and removes every persisted key.
// Storage failures are logged and swallowed; the in-memory reset stands.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	s.records = []Expense{}
	s.salary = decimal.Zero
	s.savingsGoal = decimal.Zero
	s.mu.Unlock()

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.DataCleared, nil)); err != nil {
		log.Errorf("data cleared event failed: %v", err)
	}
	// The remove goes through the writer so a still-pending snapshot can
	// never resurrect the data afterwards.
	s.enqueue(persistedState{clear: true})
}

// All returns a copy of the record collection in store order.
func (s *Store) All() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, len(s.records))
	copy(out, s.records)
	return out
}

// ForMonth returns the records whose date falls in the given "YYYY-MM"
// month, preserving store order.
func (s *Store) ForMonth(month string) []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, 0)
	for _, e := range s.records {
		if e.InMonth(month) {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return Expense{}, false
	}
	return s.records[idx], true
}

func (s *Store) Salary() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.salary
}

func (s *Store) SavingsGoal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savingsGoal
}

// Close flushes the pending write-through, if any, and stops the writer.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.saveCh)
		<-s.writerDone
	})
}

func (s *Store) indexOfLocked(id string) int {
	for idx, e := range s.records {
		if e.ID == id {
			return idx
		}
	}
	return -1
}

func (s *Store) snapshotLocked() persistedState {
	raw, err := json.Marshal(s.records)
	if err != nil {
		log.Errorf("could not serialize expenses: %v", err)
		raw = []byte("[]")
	}
	return persistedState{
		expensesJSON: string(raw),
		salary:       s.salary.String(),
		savingsGoal:  s.savingsGoal.String(),
	}
}

func (s *Store) publish(ctx context.Context, eventType event_bus.EventType, id string, months []string) {
	err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.ExpenseMutated{
		ID:     id,
		Months: months,
	}))
	if err != nil {
		log.Errorf("event %s for expense %s failed: %v", eventType, id, err)
	}
}

func (s *Store) publishSettings(ctx context.Context) {
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SettingsUpdated, nil)); err != nil {
		log.Errorf("settings updated event failed: %v", err)
	}
}

// enqueue replaces any pending snapshot so the writer always persists the
// latest state, without ever blocking the mutation.
func (s *Store) enqueue(snap persistedState) {
	for {
		select {
		case s.saveCh <- snap:
			return
		default:
			select {
			case <-s.saveCh:
			default:
			}
		}
	}
}

func (s *Store) writer() {
	defer close(s.writerDone)
	for snap := range s.saveCh {
		ctx := context.Background()
		if snap.clear {
			if err := s.storage.RemoveMany(ctx, storage.AllKeys); err != nil {
				log.Errorf("could not remove persisted data: %v", err)
			}
			continue
		}
		if err := s.storage.Set(ctx, storage.KeyExpenses, snap.expensesJSON); err != nil {
			log.Errorf("could not persist expenses: %v", err)
		}
		if err := s.storage.Set(ctx, storage.KeySalary, snap.salary); err != nil {
			log.Errorf("could not persist salary: %v", err)
		}
		if err := s.storage.Set(ctx, storage.KeySavingsGoal, snap.savingsGoal); err != nil {
			log.Errorf("could not persist savings goal: %v", err)
		}
	}
}

// affectedMonths collects the month keys whose cached summaries a mutation
// touches: the month of every involved record date plus the current month.
func affectedMonths(now time.Time, dates ...string) []string {
	months := []string{MonthKey(now)}
	for _, date := range dates {
		month, ok := MonthOf(date)
		if !ok {
			continue
		}
		duplicate := false
		for _, seen := range months {
			if seen == month {
				duplicate = true
				break
			}
		}
		if !duplicate {
			months = append(months, month)
		}
	}
	return months
}
