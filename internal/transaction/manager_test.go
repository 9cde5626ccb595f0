// Package transaction_test contains the unit tests for the transaction package.
package transaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager(0)

	// 1. Nothing open yet
	_, ok := m.Current()
	assert.False(t, ok)
	_, ok = m.Commit()
	assert.False(t, ok, "commit with nothing open should report false")

	// 2. Begin a transaction
	live := map[string]string{"a": "10"}
	tx1, err := m.Begin(live)
	require.NoError(t, err)
	require.NotEmpty(t, tx1.ID)
	assert.Equal(t, 1, tx1.Depth)
	assert.Equal(t, 1, m.Depth())

	// 3. The checkpoint is independent of the map it was taken from
	live["a"] = "20"
	live["b"] = "new"
	assert.Equal(t, map[string]string{"a": "10"}, tx1.State)

	// 4. Nested transaction gets a unique ID and depth
	tx2, err := m.Begin(live)
	require.NoError(t, err)
	assert.NotEqual(t, tx1.ID, tx2.ID)
	assert.Equal(t, 2, tx2.Depth)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, tx2.ID, cur.ID)

	// 5. Commit pops the innermost
	committed, ok := m.Commit()
	require.True(t, ok)
	assert.Equal(t, tx2.ID, committed.ID)
	assert.Equal(t, 1, m.Depth())

	// 6. Rollback pops the outer one and hands back a private copy
	rolled, restored, ok := m.Rollback()
	require.True(t, ok)
	assert.Equal(t, tx1.ID, rolled.ID)
	assert.Equal(t, map[string]string{"a": "10"}, restored)

	restored["a"] = "mutated"
	assert.Equal(t, "10", rolled.State["a"], "restored map must not alias the checkpoint")

	// 7. Stack is empty again
	_, _, ok = m.Rollback()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Depth())
}

func TestManager_BeginNilState(t *testing.T) {
	m := NewManager(0)
	cp, err := m.Begin(nil)
	require.NoError(t, err)
	assert.NotNil(t, cp.State)
	assert.Empty(t, cp.State)
}

func TestManager_MaxDepth(t *testing.T) {
	m := NewManager(2)
	state := map[string]string{}

	_, err := m.Begin(state)
	require.NoError(t, err)
	_, err = m.Begin(state)
	require.NoError(t, err)

	_, err = m.Begin(state)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDepthExceeded))

	var de *DepthExceededError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Limit)
	assert.Equal(t, 2, m.Depth(), "a refused begin must not change depth")

	// Closing one frees a slot.
	m.Commit()
	_, err = m.Begin(state)
	assert.NoError(t, err)
}
