package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/model"
)

const wardrobeCollection = "wardrobe"

// Wardrobe stores items at profiles/{owner}/wardrobe/{item}.
type Wardrobe struct {
	db docstore.Store
}

// NewWardrobe creates a wardrobe repository over db.
func NewWardrobe(db docstore.Store) *Wardrobe {
	return &Wardrobe{db: db}
}

func wardrobePath(owner string) string {
	return docstore.Join(profilesCollection, owner, wardrobeCollection)
}

// Put stores item, assigning an id when it has none.
func (w *Wardrobe) Put(ctx context.Context, owner string, item model.WardrobeItem) (model.WardrobeItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	data, err := toDocument(item)
	if err != nil {
		return model.WardrobeItem{}, fmt.Errorf("failed to encode wardrobe item: %w", err)
	}
	if err := w.db.Set(ctx, docstore.Join(wardrobePath(owner), item.ID), data, false); err != nil {
		return model.WardrobeItem{}, fmt.Errorf("failed to save wardrobe item: %w", err)
	}
	return item, nil
}

// List returns all of the owner's items.
func (w *Wardrobe) List(ctx context.Context, owner string) ([]model.WardrobeItem, error) {
	docs, err := w.db.Query(ctx, wardrobePath(owner), docstore.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to list wardrobe: %w", err)
	}

	items := make([]model.WardrobeItem, 0, len(docs))
	for _, doc := range docs {
		var item model.WardrobeItem
		if err := fromDocument(doc.Data, &item); err != nil {
			return nil, fmt.Errorf("failed to decode wardrobe item %s: %w", doc.ID, err)
		}
		if item.ID == "" {
			item.ID = doc.ID
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes an item. Deleting a missing item succeeds.
func (w *Wardrobe) Delete(ctx context.Context, owner, itemID string) error {
	if err := w.db.Delete(ctx, docstore.Join(wardrobePath(owner), itemID)); err != nil {
		return fmt.Errorf("failed to delete wardrobe item: %w", err)
	}
	return nil
}
