package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/docstore"
)

// LegacyIDPrefix marks the locally generated ids used before sign-in existed.
const LegacyIDPrefix = "user_"

// Accounts moves data between owner ids.
type Accounts struct {
	db docstore.Store
}

// NewAccounts creates an account repository over db.
func NewAccounts(db docstore.Store) *Accounts {
	return &Accounts{db: db}
}

// LinkResult counts what Link copied.
type LinkResult struct {
	Profile  bool
	Wardrobe int
	Chats    int
	Messages int
}

// Link copies the legacy owner's profile (merged into owner's), wardrobe items,
// sessions and their message logs to owner. Documents with the same id under
// owner are overwritten. With deleteOld the legacy documents are removed once
// the copy has been committed.
func (a *Accounts) Link(ctx context.Context, owner, legacyID string, deleteOld bool) (*LinkResult, error) {
	if owner == "" {
		return nil, apperr.InvalidInput("owner is required")
	}
	if !strings.HasPrefix(legacyID, LegacyIDPrefix) {
		return nil, apperr.InvalidInput(fmt.Sprintf("oldUserId must start with %q", LegacyIDPrefix))
	}

	var (
		copies  []docstore.Write
		deletes []docstore.Write
		result  LinkResult
	)

	src := docstore.Join(profilesCollection, legacyID)
	dst := docstore.Join(profilesCollection, owner)

	profile, err := a.db.Get(ctx, src)
	switch {
	case err == nil:
		data := profile.Data
		delete(data, "userId")
		copies = append(copies, docstore.Write{Op: docstore.OpMerge, Path: dst, Data: data})
		result.Profile = true
	case !apperr.IsNotFound(err):
		return nil, fmt.Errorf("failed to load legacy profile: %w", err)
	}

	items, err := a.db.Query(ctx, wardrobePath(legacyID), docstore.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy wardrobe: %w", err)
	}
	for _, item := range items {
		copies = append(copies, docstore.Write{Op: docstore.OpSet, Path: docstore.Join(wardrobePath(owner), item.ID), Data: item.Data})
		deletes = append(deletes, docstore.Write{Op: docstore.OpDelete, Path: item.Path})
	}
	result.Wardrobe = len(items)

	chats, err := a.db.Query(ctx, chatsPath(legacyID), docstore.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy chats: %w", err)
	}
	for _, chat := range chats {
		msgs, err := a.db.Query(ctx, messagesPath(legacyID, chat.ID), docstore.Query{})
		if err != nil {
			return nil, fmt.Errorf("failed to load messages of legacy chat %s: %w", chat.ID, err)
		}
		for _, m := range msgs {
			copies = append(copies, docstore.Write{Op: docstore.OpSet, Path: docstore.Join(messagesPath(owner, chat.ID), m.ID), Data: m.Data})
			deletes = append(deletes, docstore.Write{Op: docstore.OpDelete, Path: m.Path})
		}
		copies = append(copies, docstore.Write{Op: docstore.OpSet, Path: chatPath(owner, chat.ID), Data: chat.Data})
		deletes = append(deletes, docstore.Write{Op: docstore.OpDelete, Path: chat.Path})
		result.Messages += len(msgs)
	}
	result.Chats = len(chats)

	if len(copies) > 0 {
		if err := a.db.Commit(ctx, copies); err != nil {
			return nil, fmt.Errorf("failed to copy legacy data: %w", err)
		}
	}

	if deleteOld {
		deletes = append(deletes, docstore.Write{Op: docstore.OpDelete, Path: src})
		if err := a.db.Commit(ctx, deletes); err != nil {
			return nil, fmt.Errorf("failed to delete legacy data: %w", err)
		}
	}
	return &result, nil
}
