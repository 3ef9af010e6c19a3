package blob

import (
	"context"
	"sync"
)

// Object is a stored blob.
type Object struct {
	ContentType string
	Data        []byte
}

// Memory is an in-process Storage used for local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]Object
}

// NewMemory creates an empty in-memory bucket.
func NewMemory(bucket string) *Memory {
	return &Memory{bucket: bucket, objects: make(map[string]Object)}
}

// Put stores a copy of data.
func (m *Memory) Put(_ context.Context, path, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return PublicURL(m.bucket, path), nil
}

// Get returns the object at path.
func (m *Memory) Get(path string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	return obj, ok
}
