package storage

import (
	"context"
	"sync"
)

// StubStore is an in-memory Store for tests. FailWrites/FailReads make
// every Set/Get return Err to exercise the log-and-swallow paths.
type StubStore struct {
	mu         sync.Mutex
	values     map[string]string
	FailWrites bool
	FailReads  bool
	Err        error
}

func NewStubStore() *StubStore {
	return &StubStore{values: map[string]string{}}
}

func (s *StubStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailReads {
		return "", false, s.Err
	}
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *StubStore) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.Err
	}
	s.values[key] = value
	return nil
}

func (s *StubStore) RemoveMany(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return s.Err
	}
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

// Value reads a stored value without the Store interface, for assertions.
func (s *StubStore) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

// Len returns the number of stored keys.
func (s *StubStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Cleanup resets the stub between tests.
func (s *StubStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	s.FailWrites = false
	s.FailReads = false
	s.Err = nil
}
