// Package docstore is a hierarchical document store addressed by slash-separated
// paths (collection/doc/collection/doc). Deleting a document does not delete the
// collections nested under it.
package docstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type serverTimestamp struct{}

// ServerTimestamp is a field value replaced by the store's clock at write time.
var ServerTimestamp any = serverTimestamp{}

// Direction orders query results.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Query selects documents of one collection.
type Query struct {
	OrderBy   string
	Direction Direction
	Limit     int
}

// Op is the kind of a batched write.
type Op int

const (
	// OpCreate fails if the document exists.
	OpCreate Op = iota
	// OpSet replaces the document.
	OpSet
	// OpMerge merges fields into the document, creating it if needed.
	OpMerge
	// OpUpdate merges fields into an existing document and fails with NotFound otherwise.
	OpUpdate
	// OpDelete removes the document. Missing documents are not an error.
	OpDelete
)

// Write is one element of an atomic batch.
type Write struct {
	Op   Op
	Path string
	Data map[string]any
}

// Document is a stored document.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

// Store is the document store used by the repositories.
type Store interface {
	// Get returns the document or an apperr NotFound error.
	Get(ctx context.Context, path string) (*Document, error)
	// Set writes data to path, merging into existing fields when merge is true.
	Set(ctx context.Context, path string, data map[string]any, merge bool) error
	// Delete removes the document at path.
	Delete(ctx context.Context, path string) error
	// Query lists documents of the collection at path.
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	// Commit applies all writes atomically: either every write lands or none does.
	Commit(ctx context.Context, writes []Write) error
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// NewID returns a time-ordered document id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func parent(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
