package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Keys under which the application state is persisted.
const (
	KeyExpenses    = "expenses"
	KeyMonthlyData = "monthlyData"
	KeySalary      = "salary"
	KeySavingsGoal = "savingsGoal"
)

// AllKeys lists every key the application ever writes, in a fixed order.
var AllKeys = []string{KeyExpenses, KeyMonthlyData, KeySalary, KeySavingsGoal}

// Store is the persistence adapter: a flat map of named string keys to
// serialized values. The domain packages are agnostic to what backs it.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	RemoveMany(ctx context.Context, keys []string) error
}

// Dialect identifies the SQL placeholder style of the backing database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor maps a configured database type to its Dialect.
func DialectFor(dbType string) Dialect {
	if dbType == "postgres" {
		return DialectPostgres
	}
	return DialectSQLite
}

type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := "SELECT value FROM app_storage WHERE key = ?"
	if s.dialect == DialectPostgres {
		query = "SELECT value FROM app_storage WHERE key = $1"
	}

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not read storage key %q: %w", key, err)
		log.Error(err)
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value string) error {
	query := "INSERT INTO app_storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if s.dialect == DialectPostgres {
		query = "INSERT INTO app_storage (key, value) VALUES ($1, $2) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	}

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		err := fmt.Errorf("could not write storage key %q: %w", key, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *SQLStore) RemoveMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, key := range keys {
		if s.dialect == DialectPostgres {
			placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		} else {
			placeholders = append(placeholders, "?")
		}
		args = append(args, key)
	}
	query := fmt.Sprintf("DELETE FROM app_storage WHERE key IN (%s)", strings.Join(placeholders, ", "))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		err := fmt.Errorf("could not remove storage keys %v: %w", keys, err)
		log.Error(err)
		return err
	}
	return nil
}
