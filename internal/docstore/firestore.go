package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
)

// maxTransactionWrites is Firestore's per-transaction write limit.
const maxTransactionWrites = 500

// Firestore is a Store backed by Cloud Firestore.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore connects to the Firestore database of projectID.
func NewFirestore(ctx context.Context, projectID string, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

// Close releases the client.
func (f *Firestore) Close() error {
	return f.client.Close()
}

// Get returns the document at path.
func (f *Firestore) Get(ctx context.Context, path string) (*Document, error) {
	ref := f.client.Doc(path)
	if ref == nil {
		return nil, apperr.InvalidInput(fmt.Sprintf("invalid document path %q", path))
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperr.NotFound("document", path)
		}
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}

	return &Document{ID: snap.Ref.ID, Path: path, Data: snap.Data()}, nil
}

// Set writes a single document.
func (f *Firestore) Set(ctx context.Context, path string, data map[string]any, merge bool) error {
	ref := f.client.Doc(path)
	if ref == nil {
		return apperr.InvalidInput(fmt.Sprintf("invalid document path %q", path))
	}

	var err error
	if merge {
		_, err = ref.Set(ctx, toFirestore(data), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, toFirestore(data))
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// Delete removes a single document.
func (f *Firestore) Delete(ctx context.Context, path string) error {
	ref := f.client.Doc(path)
	if ref == nil {
		return apperr.InvalidInput(fmt.Sprintf("invalid document path %q", path))
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Query lists the documents of collection.
func (f *Firestore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	coll := f.client.Collection(collection)
	if coll == nil {
		return nil, apperr.InvalidInput(fmt.Sprintf("invalid collection path %q", collection))
	}

	query := coll.Query
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{
			ID:   snap.Ref.ID,
			Path: Join(collection, snap.Ref.ID),
			Data: snap.Data(),
		})
	}
	return docs, nil
}

// Commit applies writes in a transaction. Batches larger than the Firestore
// transaction limit are split; each chunk is atomic on its own.
func (f *Firestore) Commit(ctx context.Context, writes []Write) error {
	for start := 0; start < len(writes); start += maxTransactionWrites {
		end := min(start+maxTransactionWrites, len(writes))
		if err := f.commitChunk(ctx, writes[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Firestore) commitChunk(ctx context.Context, writes []Write) error {
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, w := range writes {
			ref := f.client.Doc(w.Path)
			if ref == nil {
				return apperr.InvalidInput(fmt.Sprintf("invalid document path %q", w.Path))
			}

			var err error
			switch w.Op {
			case OpCreate:
				err = tx.Create(ref, toFirestore(w.Data))
			case OpSet:
				err = tx.Set(ref, toFirestore(w.Data))
			case OpMerge:
				err = tx.Set(ref, toFirestore(w.Data), firestore.MergeAll)
			case OpUpdate:
				err = tx.Update(ref, toUpdates(w.Data))
			case OpDelete:
				err = tx.Delete(ref)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return apperr.NotFound("document", writes[0].Path)
		}
		return fmt.Errorf("failed to commit %d writes: %w", len(writes), err)
	}
	return nil
}

func toFirestore(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func toUpdates(data map[string]any) []firestore.Update {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range toFirestore(data) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	return updates
}
