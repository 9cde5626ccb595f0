// Package store contains the core logic for the in-memory key-value store
// and its nested transactions.
//
// There is exactly one live mapping. BEGIN saves a copy of it, ROLLBACK
// puts the most recent copy back, and COMMIT throws the most recent copy
// away. Because every nesting level writes to the same live mapping, an
// inner COMMIT does not shield its writes from an outer ROLLBACK.
package store

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/ASHISH26940/txkv/internal/transaction"
)

// Store is an in-memory key-value store with nested transactions.
// Every method holds the same mutex for its whole duration, so each
// operation is atomic with respect to the others.
type Store struct {
	mu     sync.Mutex
	data   map[string]string
	tx     *transaction.Manager
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMaxDepth limits how many transactions may be open at once.
// Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(s *Store) {
		s.tx = transaction.NewManager(n)
	}
}

// WithLogger sets the logger used for operation tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore initializes and returns a new empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:   make(map[string]string),
		tx:     transaction.NewManager(0),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves the value for key. The boolean is false when the key is
// not set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	return value, ok
}

// Set adds or updates a key-value pair.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.logger.Debug("set", "key", key, "depth", s.tx.Depth())
}

// Delete removes a key-value pair from the store. Deleting an absent key
// is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	s.logger.Debug("delete", "key", key, "depth", s.tx.Depth())
}

// Count returns the number of keys whose value equals value exactly.
func (s *Store) Count(value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.data {
		if v == value {
			n++
		}
	}
	return n
}

// Begin opens a nested transaction by saving a copy of the current state.
// It only fails when a depth limit is configured and already reached.
func (s *Store) Begin() (*transaction.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, err := s.tx.Begin(s.data)
	if err != nil {
		s.logger.Warn("begin refused", "depth", s.tx.Depth(), "err", err)
		return nil, err
	}
	s.logger.Info("begin", "tx", cp.ID, "depth", cp.Depth)
	return cp, nil
}

// Commit closes the innermost transaction. The live state is left as is;
// only the ability to roll back to that checkpoint is given up. It reports
// false when no transaction is open.
func (s *Store) Commit() (*transaction.Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.tx.Commit()
	if !ok {
		return nil, false
	}
	s.logger.Info("commit", "tx", cp.ID, "depth", s.tx.Depth())
	return cp, true
}

// Rollback closes the innermost transaction and restores the state saved
// when it began. It reports false when no transaction is open.
func (s *Store) Rollback() (*transaction.Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, restored, ok := s.tx.Rollback()
	if !ok {
		return nil, false
	}
	s.data = restored
	s.logger.Info("rollback", "tx", cp.ID, "depth", s.tx.Depth())
	return cp, true
}

// Current returns the innermost open transaction without closing it.
func (s *Store) Current() (*transaction.Checkpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.Current()
}

// Depth returns the number of open transactions.
func (s *Store) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx.Depth()
}

// Len returns the number of keys currently set.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Keys returns the keys currently set, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
