package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
)

// Memory is an in-process Store. Server timestamps are strictly increasing.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
	now  func() time.Time
	last time.Time

	// failCommit, when set, is consulted before each Commit. Tests use it to
	// simulate store outages.
	failCommit func(writes []Write) error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]map[string]any),
		now:  time.Now,
	}
}

// SetClock replaces the clock used for server timestamps.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// FailCommitWith makes subsequent commits consult fn and abort when it returns an error.
func (m *Memory) FailCommitWith(fn func(writes []Write) error) {
	m.mu.Lock()
	m.failCommit = fn
	m.mu.Unlock()
}

// Get returns the document at path.
func (m *Memory) Get(_ context.Context, path string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[path]
	if !ok {
		return nil, apperr.NotFound("document", path)
	}
	return &Document{ID: lastSegment(path), Path: path, Data: copyMap(data)}, nil
}

// Set writes a single document.
func (m *Memory) Set(ctx context.Context, path string, data map[string]any, merge bool) error {
	op := OpSet
	if merge {
		op = OpMerge
	}
	return m.Commit(ctx, []Write{{Op: op, Path: path, Data: data}})
}

// Delete removes a single document.
func (m *Memory) Delete(ctx context.Context, path string) error {
	return m.Commit(ctx, []Write{{Op: OpDelete, Path: path}})
}

// Query lists the direct children of collection.
func (m *Memory) Query(_ context.Context, collection string, q Query) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Document
	for path, data := range m.docs {
		if parent(path) != collection {
			continue
		}
		if q.OrderBy != "" {
			if _, ok := data[q.OrderBy]; !ok {
				// Documents without the ordering field are excluded, as in Firestore.
				continue
			}
		}
		docs = append(docs, Document{ID: lastSegment(path), Path: path, Data: copyMap(data)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if q.OrderBy == "" {
			return docs[i].Path < docs[j].Path
		}
		c := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
		if c == 0 {
			c = strings.Compare(docs[i].Path, docs[j].Path)
		}
		if q.Direction == Desc {
			return c > 0
		}
		return c < 0
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

// Commit validates every write before applying any of them.
func (m *Memory) Commit(_ context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCommit != nil {
		if err := m.failCommit(writes); err != nil {
			return err
		}
	}

	for _, w := range writes {
		if w.Path == "" || strings.Count(w.Path, "/")%2 == 0 {
			return apperr.InvalidInput(fmt.Sprintf("invalid document path %q", w.Path))
		}
		_, exists := m.docs[w.Path]
		switch w.Op {
		case OpCreate:
			if exists {
				return fmt.Errorf("document %q already exists", w.Path)
			}
		case OpUpdate:
			if !exists {
				return apperr.NotFound("document", w.Path)
			}
		}
	}

	ts := m.tick()
	for _, w := range writes {
		switch w.Op {
		case OpDelete:
			delete(m.docs, w.Path)
		case OpCreate, OpSet:
			m.docs[w.Path] = resolve(w.Data, ts)
		case OpMerge, OpUpdate:
			cur, ok := m.docs[w.Path]
			if !ok {
				cur = make(map[string]any)
			}
			for k, v := range resolve(w.Data, ts) {
				cur[k] = v
			}
			m.docs[w.Path] = cur
		}
	}
	return nil
}

func (m *Memory) tick() time.Time {
	ts := m.now().UTC()
	if !ts.After(m.last) {
		ts = m.last.Add(time.Microsecond)
	}
	m.last = ts
	return ts
}

func resolve(data map[string]any, ts time.Time) map[string]any {
	out := copyMap(data)
	for k, v := range out {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = ts
		}
	}
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// compareValues orders nil first, then times, numbers and strings.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
