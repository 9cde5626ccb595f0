// Package transaction manages the checkpoints that back nested transactions.
package transaction

import (
	"errors"
	"fmt"
	"maps"

	"github.com/ASHISH26940/txkv/internal/stack"
	"github.com/google/uuid"
)

// ErrDepthExceeded is matched by errors.Is when Begin would open more
// transactions than the manager allows.
var ErrDepthExceeded = errors.New("transaction depth limit reached")

// DepthExceededError reports the configured limit that a Begin call hit.
type DepthExceededError struct {
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("transaction depth limit %d reached", e.Limit)
}

func (e *DepthExceededError) Is(target error) bool {
	return target == ErrDepthExceeded
}

// Checkpoint is the state of the store captured when a transaction began.
// State is a copy owned by the manager and must not be modified.
type Checkpoint struct {
	ID    string
	Depth int // 1 for the outermost transaction
	State map[string]string
}

// Manager is a LIFO of checkpoints. Its length is the number of open
// transactions. It is not safe for concurrent use; the owning store
// serializes access.
type Manager struct {
	checkpoints *stack.Stack[*Checkpoint]
	maxDepth    int
}

// NewManager creates a transaction manager. A maxDepth of zero or less
// means nesting is unlimited.
func NewManager(maxDepth int) *Manager {
	return &Manager{
		checkpoints: stack.New[*Checkpoint](),
		maxDepth:    maxDepth,
	}
}

// Begin captures a copy of state and opens a new transaction on top of the
// current ones.
func (m *Manager) Begin(state map[string]string) (*Checkpoint, error) {
	if m.maxDepth > 0 && m.checkpoints.Len() >= m.maxDepth {
		return nil, &DepthExceededError{Limit: m.maxDepth}
	}

	cp := &Checkpoint{
		ID:    uuid.NewString(),
		Depth: m.checkpoints.Len() + 1,
		State: clone(state),
	}
	m.checkpoints.Push(cp)
	return cp, nil
}

// Commit closes the innermost transaction and discards its checkpoint.
// It reports false when no transaction is open.
func (m *Manager) Commit() (*Checkpoint, bool) {
	return m.checkpoints.Pop()
}

// Rollback closes the innermost transaction and returns its checkpoint
// together with a fresh copy of the state captured at Begin. The copy is
// what the caller should install; the checkpoint's own State is never
// handed out for mutation.
func (m *Manager) Rollback() (*Checkpoint, map[string]string, bool) {
	cp, ok := m.checkpoints.Pop()
	if !ok {
		return nil, nil, false
	}
	return cp, clone(cp.State), true
}

// Current returns the innermost open transaction, if any.
func (m *Manager) Current() (*Checkpoint, bool) {
	return m.checkpoints.Peek()
}

// Depth returns the number of open transactions.
func (m *Manager) Depth() int {
	return m.checkpoints.Len()
}

func clone(state map[string]string) map[string]string {
	if state == nil {
		return make(map[string]string)
	}
	return maps.Clone(state)
}
