// Package blob stores image bytes and returns public URLs for them.
package blob

import (
	"context"
)

// Storage writes objects and makes them publicly readable.
type Storage interface {
	// Put stores data at path and returns the object's public URL.
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}
