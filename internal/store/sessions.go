// Package store implements the persistence model on top of the document store:
// profiles/{owner} holds the profile, profiles/{owner}/chats/{chat} the sessions
// and profiles/{owner}/chats/{chat}/messages/{message} the append-only logs.
package store

import (
	"context"
	"fmt"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/pkg/timestamp"
)

const (
	profilesCollection = "profiles"
	chatsCollection    = "chats"
	messagesCollection = "messages"

	// ListLimit caps the number of sessions returned by List.
	ListLimit = 50

	legacySuffix = "-legacy"
)

// Sessions is the chat session store.
type Sessions struct {
	db docstore.Store
}

// NewSessions creates a session store over db.
func NewSessions(db docstore.Store) *Sessions {
	return &Sessions{db: db}
}

func chatsPath(owner string) string {
	return docstore.Join(profilesCollection, owner, chatsCollection)
}

func chatPath(owner, chatID string) string {
	return docstore.Join(chatsPath(owner), chatID)
}

func messagesPath(owner, chatID string) string {
	return docstore.Join(chatPath(owner, chatID), messagesCollection)
}

// Create starts an empty session for owner and returns its id.
func (s *Sessions) Create(ctx context.Context, owner, mode string) (string, error) {
	if owner == "" {
		return "", apperr.InvalidInput("owner is required")
	}

	id := docstore.NewID()
	if err := s.db.Commit(ctx, []docstore.Write{sessionWrite(owner, id, mode)}); err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	return id, nil
}

// Start creates a session together with its first message entry in one atomic
// batch and returns the session and message ids. Either both land or neither.
func (s *Sessions) Start(ctx context.Context, owner, mode, userMessage string, resp *model.Response) (string, string, error) {
	if owner == "" {
		return "", "", apperr.InvalidInput("owner is required")
	}

	chatID, msgID := docstore.NewID(), docstore.NewID()
	writes := []docstore.Write{
		sessionWrite(owner, chatID, mode),
		messageWrite(owner, chatID, msgID, userMessage, resp),
	}
	if err := s.db.Commit(ctx, writes); err != nil {
		return "", "", fmt.Errorf("failed to start chat: %w", err)
	}
	return chatID, msgID, nil
}

func sessionWrite(owner, chatID, mode string) docstore.Write {
	data := map[string]any{
		"createdAt": docstore.ServerTimestamp,
		"updatedAt": docstore.ServerTimestamp,
	}
	if mode != "" {
		data["mode"] = mode
	}
	return docstore.Write{Op: docstore.OpCreate, Path: chatPath(owner, chatID), Data: data}
}

func messageWrite(owner, chatID, msgID, userMessage string, resp *model.Response) docstore.Write {
	return docstore.Write{
		Op:   docstore.OpCreate,
		Path: docstore.Join(messagesPath(owner, chatID), msgID),
		Data: map[string]any{
			"userMessage": userMessage,
			"response":    encodeResponse(resp),
			"timestamp":   docstore.ServerTimestamp,
		},
	}
}

// Exists returns a NotFound error unless owner has a session chatID.
func (s *Sessions) Exists(ctx context.Context, owner, chatID string) error {
	if owner == "" || chatID == "" {
		return apperr.InvalidInput("owner and chatId are required")
	}
	if _, err := s.db.Get(ctx, chatPath(owner, chatID)); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("chat", chatID)
		}
		return fmt.Errorf("failed to load chat: %w", err)
	}
	return nil
}

// Append adds a message entry and bumps the session's updatedAt in one atomic
// batch. Nothing is written when the session does not exist.
func (s *Sessions) Append(ctx context.Context, owner, chatID, userMessage string, resp *model.Response) (string, error) {
	if owner == "" || chatID == "" {
		return "", apperr.InvalidInput("owner and chatId are required")
	}

	id := docstore.NewID()
	writes := []docstore.Write{
		messageWrite(owner, chatID, id, userMessage, resp),
		{
			Op:   docstore.OpUpdate,
			Path: chatPath(owner, chatID),
			Data: map[string]any{"updatedAt": docstore.ServerTimestamp},
		},
	}

	if err := s.db.Commit(ctx, writes); err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("chat", chatID)
		}
		return "", fmt.Errorf("failed to append message: %w", err)
	}
	return id, nil
}

// RecentTurns returns up to limit of the newest entries, oldest first.
func (s *Sessions) RecentTurns(ctx context.Context, owner, chatID string, limit int) ([]model.Turn, error) {
	docs, err := s.db.Query(ctx, messagesPath(owner, chatID), docstore.Query{
		OrderBy:   "timestamp",
		Direction: docstore.Desc,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}

	turns := make([]model.Turn, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		turn := model.Turn{UserMessage: stringField(docs[i].Data, "userMessage")}
		if resp := decodeResponse(docs[i].Data["response"]); resp != nil {
			turn.AssistantReply = resp.Reply
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// List returns the owner's newest sessions with their full message logs.
func (s *Sessions) List(ctx context.Context, owner string) ([]model.Session, error) {
	if owner == "" {
		return nil, apperr.InvalidInput("owner is required")
	}

	docs, err := s.db.Query(ctx, chatsPath(owner), docstore.Query{
		OrderBy:   "createdAt",
		Direction: docstore.Desc,
		Limit:     ListLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	sessions := make([]model.Session, 0, len(docs))
	for _, doc := range docs {
		msgs, err := s.db.Query(ctx, messagesPath(owner, doc.ID), docstore.Query{
			OrderBy:   "timestamp",
			Direction: docstore.Asc,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list messages of chat %s: %w", doc.ID, err)
		}

		entries := make([]model.MessageEntry, 0, len(msgs)+1)
		if legacy, ok := legacyEntry(doc); ok {
			entries = append(entries, legacy)
		}
		for _, m := range msgs {
			ts, _ := timestamp.ToISO(m.Data["timestamp"])
			entries = append(entries, model.MessageEntry{
				ID:          m.ID,
				UserMessage: stringField(m.Data, "userMessage"),
				Response:    decodeResponse(m.Data["response"]),
				Timestamp:   ts,
			})
		}

		createdAt, _ := timestamp.ToISO(doc.Data["createdAt"])
		updatedAt, _ := timestamp.ToISO(doc.Data["updatedAt"])
		sessions = append(sessions, model.Session{
			ID:        doc.ID,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
			Mode:      stringField(doc.Data, "mode"),
			Messages:  entries,
		})
	}
	return sessions, nil
}

// Delete removes every message entry of the session in one batch and then the
// session itself. If the second step fails the session is still listed and the
// whole call can be retried. On Firestore a batch is atomic only up to 500
// writes, so a session with more messages is cleared in several commits and an
// interrupted delete can leave part of the log behind until it is retried.
func (s *Sessions) Delete(ctx context.Context, owner, chatID string) error {
	if err := s.Exists(ctx, owner, chatID); err != nil {
		return err
	}

	msgs, err := s.db.Query(ctx, messagesPath(owner, chatID), docstore.Query{})
	if err != nil {
		return fmt.Errorf("failed to load messages for delete: %w", err)
	}

	if len(msgs) > 0 {
		writes := make([]docstore.Write, 0, len(msgs))
		for _, m := range msgs {
			writes = append(writes, docstore.Write{Op: docstore.OpDelete, Path: m.Path})
		}
		if err := s.db.Commit(ctx, writes); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
	}

	if err := s.db.Delete(ctx, chatPath(owner, chatID)); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// legacyEntry surfaces the flat message/response fields of old session documents.
func legacyEntry(doc docstore.Document) (model.MessageEntry, bool) {
	msg := stringField(doc.Data, "message")
	resp := decodeResponse(doc.Data["response"])
	if msg == "" || resp == nil {
		return model.MessageEntry{}, false
	}

	ts, ok := timestamp.ToISO(doc.Data["timestamp"])
	if !ok {
		ts, _ = timestamp.ToISO(doc.Data["createdAt"])
	}
	return model.MessageEntry{
		ID:          doc.ID + legacySuffix,
		UserMessage: msg,
		Response:    resp,
		Timestamp:   ts,
	}, true
}
