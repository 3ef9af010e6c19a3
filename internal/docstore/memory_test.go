package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
)

func TestMemoryServerTimestampsIncrease(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return fixed })

	require.NoError(t, m.Set(ctx, "c/a", map[string]any{"ts": ServerTimestamp}, false))
	require.NoError(t, m.Set(ctx, "c/b", map[string]any{"ts": ServerTimestamp}, false))

	a, err := m.Get(ctx, "c/a")
	require.NoError(t, err)
	b, err := m.Get(ctx, "c/b")
	require.NoError(t, err)

	assert.True(t, b.Data["ts"].(time.Time).After(a.Data["ts"].(time.Time)))
}

func TestMemoryQueryOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, id := range []string{"one", "two", "three"} {
		require.NoError(t, m.Set(ctx, Join("p", "u1", "chats", id), map[string]any{"createdAt": ServerTimestamp}, false))
	}
	require.NoError(t, m.Set(ctx, "p/u1/chats/one/messages/m1", map[string]any{"timestamp": ServerTimestamp}, false))
	require.NoError(t, m.Set(ctx, "p/u1/chats/untimed", map[string]any{"x": 1}, false))

	docs, err := m.Query(ctx, "p/u1/chats", Query{OrderBy: "createdAt", Direction: Desc, Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "three", docs[0].ID)
	assert.Equal(t, "two", docs[1].ID)

	all, err := m.Query(ctx, "p/u1/chats", Query{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryCommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.Commit(ctx, []Write{
		{Op: OpCreate, Path: "c/new", Data: map[string]any{"a": 1}},
		{Op: OpUpdate, Path: "c/missing", Data: map[string]any{"b": 2}},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = m.Get(ctx, "c/new")
	assert.True(t, apperr.IsNotFound(err), "no write of a failed batch may land")
}

func TestMemoryDeleteLeavesSubcollections(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "c/parent", map[string]any{"a": 1}, false))
	require.NoError(t, m.Set(ctx, "c/parent/kids/k1", map[string]any{"b": 2}, false))
	require.NoError(t, m.Delete(ctx, "c/parent"))

	kids, err := m.Query(ctx, "c/parent/kids", Query{})
	require.NoError(t, err)
	assert.Len(t, kids, 1)
}

func TestMemoryMergeAndFailures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "c/d", map[string]any{"a": 1, "b": 1}, false))
	require.NoError(t, m.Set(ctx, "c/d", map[string]any{"b": 2}, true))
	doc, err := m.Get(ctx, "c/d")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, doc.Data)

	boom := errors.New("unavailable")
	m.FailCommitWith(func([]Write) error { return boom })
	assert.ErrorIs(t, m.Delete(ctx, "c/d"), boom)

	m.FailCommitWith(nil)
	require.NoError(t, m.Delete(ctx, "c/d"))

	assert.True(t, apperr.IsInvalidInput(m.Set(ctx, "c", map[string]any{}, false)))
}
