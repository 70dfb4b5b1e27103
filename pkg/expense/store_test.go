package expense

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kharcha/kharcha/internal/event_bus"
	"github.com/kharcha/kharcha/internal/storage"
	"github.com/kharcha/kharcha/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func juneClock() *utils.MockClock {
	return &utils.MockClock{FixedNow: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func newTestStore(t *testing.T) (*Store, *storage.StubStore) {
	t.Helper()
	stub := storage.NewStubStore()
	store := NewStore(stub, event_bus.NewEventBus(), juneClock())
	t.Cleanup(store.Close)
	return store, stub
}

func TestStore_Add(t *testing.T) {
	t.Run("should assign id and creation timestamp", func(t *testing.T) {
		store, _ := newTestStore(t)

		// when
		created := store.Add(ctx, validExpense())

		// then
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "2024-06-15T10:00:00Z", created.Timestamp)
		assert.Empty(t, created.LastModified)
	})

	t.Run("should prepend so the newest record comes first", func(t *testing.T) {
		store, _ := newTestStore(t)

		// given
		first := store.Add(ctx, validExpense())
		second := store.Add(ctx, validExpense())

		// when
		all := store.All()

		// then
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, first.ID, all[1].ID)
	})
}

func TestStore_Update(t *testing.T) {
	t.Run("should merge only the provided fields and stamp lastModified", func(t *testing.T) {
		store, _ := newTestStore(t)
		created := store.Add(ctx, validExpense())

		// when
		amount := decimal.NewFromInt(999)
		updated, ok := store.Update(ctx, created.ID, Patch{Amount: &amount})

		// then
		require.True(t, ok)
		assert.True(t, updated.Amount.Equal(decimal.NewFromInt(999)))
		assert.Equal(t, created.Category, updated.Category)
		assert.Equal(t, created.Date, updated.Date)
		assert.Equal(t, created.PaymentMethod, updated.PaymentMethod)
		assert.Equal(t, created.Notes, updated.Notes)
		assert.Equal(t, created.Timestamp, updated.Timestamp)
		assert.Equal(t, "2024-06-15T10:00:00Z", updated.LastModified)
	})

	t.Run("should be a no-op for an unknown id", func(t *testing.T) {
		store, _ := newTestStore(t)
		created := store.Add(ctx, validExpense())

		// when
		amount := decimal.NewFromInt(999)
		_, ok := store.Update(ctx, "no-such-id", Patch{Amount: &amount})

		// then
		assert.False(t, ok)
		all := store.All()
		require.Len(t, all, 1)
		assert.True(t, all[0].Amount.Equal(created.Amount))
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("should remove the record", func(t *testing.T) {
		store, _ := newTestStore(t)
		created := store.Add(ctx, validExpense())

		// when
		ok := store.Delete(ctx, created.ID)

		// then
		assert.True(t, ok)
		assert.Empty(t, store.All())
		for _, month := range []string{"2024-06", "2024-07"} {
			for _, e := range store.ForMonth(month) {
				assert.NotEqual(t, created.ID, e.ID)
			}
		}
	})

	t.Run("should leave the collection unchanged for an unknown id", func(t *testing.T) {
		store, _ := newTestStore(t)
		store.Add(ctx, validExpense())
		before := store.All()

		// when
		ok := store.Delete(ctx, "no-such-id")

		// then
		assert.False(t, ok)
		assert.Equal(t, before, store.All())
	})
}

func TestStore_ForMonth(t *testing.T) {
	store, _ := newTestStore(t)

	june := validExpense()
	may := validExpense()
	may.Date = "2024-05-20"
	malformed := validExpense()
	malformed.Date = "2024-06"

	store.Add(ctx, june)
	store.Add(ctx, may)
	store.Add(ctx, malformed)

	assert.Len(t, store.ForMonth("2024-06"), 1)
	assert.Len(t, store.ForMonth("2024-05"), 1)
	assert.Empty(t, store.ForMonth("2023-06"))
}

func TestStore_Settings(t *testing.T) {
	store, _ := newTestStore(t)

	store.SetSalary(ctx, decimal.NewFromInt(100000))
	store.SetSavingsGoal(ctx, decimal.NewFromInt(20000))

	assert.True(t, store.Salary().Equal(decimal.NewFromInt(100000)))
	assert.True(t, store.SavingsGoal().Equal(decimal.NewFromInt(20000)))

	// Any numeric value is accepted at this layer, including negatives.
	store.SetSalary(ctx, decimal.NewFromInt(-5))
	assert.True(t, store.Salary().Equal(decimal.NewFromInt(-5)))
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	// given
	stub := storage.NewStubStore()
	clock := juneClock()
	store := NewStore(stub, event_bus.NewEventBus(), clock)
	first := store.Add(ctx, validExpense())
	second := store.Add(ctx, validExpense())
	store.SetSalary(ctx, decimal.NewFromInt(100000))
	store.SetSavingsGoal(ctx, decimal.NewFromInt(20000))
	store.Close()

	// when
	reloaded := NewStore(stub, event_bus.NewEventBus(), clock)
	t.Cleanup(reloaded.Close)
	reloaded.Load(ctx)

	// then
	all := reloaded.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	assert.True(t, reloaded.Salary().Equal(decimal.NewFromInt(100000)))
	assert.True(t, reloaded.SavingsGoal().Equal(decimal.NewFromInt(20000)))
}

func TestStore_Load(t *testing.T) {
	t.Run("should fall back to zero values when keys are absent", func(t *testing.T) {
		store, _ := newTestStore(t)

		// when
		store.Load(ctx)

		// then
		assert.Empty(t, store.All())
		assert.True(t, store.Salary().IsZero())
		assert.True(t, store.SavingsGoal().IsZero())
	})

	t.Run("should fall back to zero values on unparsable data", func(t *testing.T) {
		stub := storage.NewStubStore()
		require.NoError(t, stub.Set(ctx, storage.KeyExpenses, "{not json"))
		require.NoError(t, stub.Set(ctx, storage.KeySalary, "many rupees"))
		store := NewStore(stub, event_bus.NewEventBus(), juneClock())
		t.Cleanup(store.Close)

		// when
		store.Load(ctx)

		// then
		assert.Empty(t, store.All())
		assert.True(t, store.Salary().IsZero())
	})
}

func TestStore_ClearAll(t *testing.T) {
	store, stub := newTestStore(t)
	store.Add(ctx, validExpense())
	store.SetSalary(ctx, decimal.NewFromInt(100000))
	store.SetSavingsGoal(ctx, decimal.NewFromInt(20000))

	// when
	store.ClearAll(ctx)
	store.Close()

	// then
	assert.Empty(t, store.All())
	assert.True(t, store.Salary().IsZero())
	assert.True(t, store.SavingsGoal().IsZero())
	for _, key := range storage.AllKeys {
		_, found := stub.Value(key)
		assert.False(t, found, "key %s should be removed", key)
	}
}

func TestStore_WriteThrough(t *testing.T) {
	t.Run("should persist the latest state once flushed", func(t *testing.T) {
		store, stub := newTestStore(t)

		// given
		created := store.Add(ctx, validExpense())
		store.Close()

		// then
		raw, found := stub.Value(storage.KeyExpenses)
		require.True(t, found)
		var persisted []Expense
		require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
		require.Len(t, persisted, 1)
		assert.Equal(t, created.ID, persisted[0].ID)
	})

	t.Run("should swallow storage failures and keep serving memory", func(t *testing.T) {
		stub := storage.NewStubStore()
		stub.FailWrites = true
		stub.Err = errors.New("disk full")
		store := NewStore(stub, event_bus.NewEventBus(), juneClock())

		// when
		created := store.Add(ctx, validExpense())
		store.Close()

		// then
		assert.Len(t, store.All(), 1)
		assert.Equal(t, created.ID, store.All()[0].ID)
	})
}
