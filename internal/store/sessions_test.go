package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/model"
)

func newSessions(t *testing.T) (*Sessions, *docstore.Memory) {
	t.Helper()
	db := docstore.NewMemory()
	db.SetClock(stepClock())
	return NewSessions(db), db
}

// stepClock advances one second per reading so timestamps differ at millisecond precision.
func stepClock() func() time.Time {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func reply(text string) *model.Response {
	return &model.Response{Reply: text, Explain: "why", Tags: []string{"casual"}}
}

func TestSessionsCreateAppendList(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	id, err := s.Create(ctx, "u1", "chill")
	require.NoError(t, err)
	require.NoError(t, s.Exists(ctx, "u1", id))

	_, err = s.Append(ctx, "u1", id, "first", reply("one"))
	require.NoError(t, err)
	_, err = s.Append(ctx, "u1", id, "second", reply("two"))
	require.NoError(t, err)

	sessions, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	got := sessions[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "chill", got.Mode)
	assert.NotEmpty(t, got.CreatedAt)
	assert.Greater(t, got.UpdatedAt, got.CreatedAt)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "first", got.Messages[0].UserMessage)
	assert.Equal(t, "two", got.Messages[1].Response.Reply)
	assert.Equal(t, []string{"casual"}, got.Messages[1].Response.Tags)
	assert.Less(t, got.Messages[0].Timestamp, got.Messages[1].Timestamp)
}

func TestSessionsAppendMissingSession(t *testing.T) {
	ctx := context.Background()
	s, db := newSessions(t)

	_, err := s.Append(ctx, "u1", "nope", "hi", reply("hello"))
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	msgs, err := db.Query(ctx, messagesPath("u1", "nope"), docstore.Query{})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSessionsStartWritesSessionAndEntryTogether(t *testing.T) {
	ctx := context.Background()
	s, db := newSessions(t)

	chatID, msgID, err := s.Start(ctx, "u1", "chill", "first", reply("one"))
	require.NoError(t, err)

	sessions, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, chatID, sessions[0].ID)
	assert.Equal(t, "chill", sessions[0].Mode)
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, msgID, sessions[0].Messages[0].ID)
	assert.Equal(t, "one", sessions[0].Messages[0].Response.Reply)

	outage := errors.New("store unavailable")
	db.FailCommitWith(func([]docstore.Write) error { return outage })

	_, _, err = s.Start(ctx, "u2", "", "first", reply("one"))
	require.ErrorIs(t, err, outage)

	sessions, err = s.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionsAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	id, err := s.Create(ctx, "u1", "")
	require.NoError(t, err)

	assert.True(t, apperr.IsNotFound(s.Exists(ctx, "u2", id)))
	_, err = s.Append(ctx, "u2", id, "hi", reply("x"))
	assert.True(t, apperr.IsNotFound(err))

	others, err := s.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestSessionsListNewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	var last string
	for i := 0; i < ListLimit+5; i++ {
		id, err := s.Create(ctx, "u1", "")
		require.NoError(t, err)
		last = id
	}

	sessions, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, ListLimit)
	assert.Equal(t, last, sessions[0].ID)
	assert.Empty(t, sessions[0].Messages)
}

func TestSessionsRecentTurns(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)

	id, err := s.Create(ctx, "u1", "")
	require.NoError(t, err)
	for i := 1; i <= 8; i++ {
		_, err := s.Append(ctx, "u1", id, fmt.Sprintf("q%d", i), reply(fmt.Sprintf("a%d", i)))
		require.NoError(t, err)
	}

	turns, err := s.RecentTurns(ctx, "u1", id, 6)
	require.NoError(t, err)
	require.Len(t, turns, 6)
	assert.Equal(t, model.Turn{UserMessage: "q3", AssistantReply: "a3"}, turns[0])
	assert.Equal(t, model.Turn{UserMessage: "q8", AssistantReply: "a8"}, turns[5])
}

func TestSessionsLegacyDocument(t *testing.T) {
	ctx := context.Background()
	s, db := newSessions(t)

	created := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	require.NoError(t, db.Set(ctx, chatPath("u1", "old"), map[string]any{
		"createdAt": created,
		"message":   "what goes with olive chinos?",
		"response": map[string]any{
			"reply":   "A white tee.",
			"explain": "Balanced neutrals.",
			"tags":    []any{"casual"},
		},
		"timestamp": map[string]any{"_seconds": float64(1700000000), "_nanoseconds": float64(0)},
	}, false))
	_, err := s.Append(ctx, "u1", "old", "and shoes?", reply("White sneakers."))
	require.NoError(t, err)

	sessions, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	msgs := sessions[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "old-legacy", msgs[0].ID)
	assert.Equal(t, "what goes with olive chinos?", msgs[0].UserMessage)
	assert.Equal(t, "A white tee.", msgs[0].Response.Reply)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", msgs[0].Timestamp)
	assert.Equal(t, "and shoes?", msgs[1].UserMessage)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", sessions[0].CreatedAt)

	// Reading never rewrites the legacy document.
	doc, err := db.Get(ctx, chatPath("u1", "old"))
	require.NoError(t, err)
	assert.Equal(t, "what goes with olive chinos?", doc.Data["message"])
	_, err = db.Get(ctx, docstore.Join(messagesPath("u1", "old"), "old-legacy"))
	assert.True(t, apperr.IsNotFound(err))
}

func TestSessionsLegacyTimestampFallsBackToCreatedAt(t *testing.T) {
	ctx := context.Background()
	s, db := newSessions(t)

	require.NoError(t, db.Set(ctx, chatPath("u1", "old"), map[string]any{
		"createdAt": "2022-01-02T03:04:05.000Z",
		"message":   "hi",
		"response":  map[string]any{"reply": "hey"},
	}, false))

	sessions, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, "2022-01-02T03:04:05.000Z", sessions[0].Messages[0].Timestamp)
	assert.Equal(t, []string{}, sessions[0].Messages[0].Response.Tags)
}

func TestSessionsDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s, db := newSessions(t)

	keep, err := s.Create(ctx, "u1", "")
	require.NoError(t, err)
	doomed, err := s.Create(ctx, "u1", "")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, "u1", doomed, "hi", reply("hey"))
		require.NoError(t, err)
	}
	_, err = s.Append(ctx, "u1", keep, "stay", reply("ok"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "u1", doomed))

	sessions, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, keep, sessions[0].ID)

	orphans, err := db.Query(ctx, messagesPath("u1", doomed), docstore.Query{})
	require.NoError(t, err)
	assert.Empty(t, orphans)

	assert.True(t, apperr.IsNotFound(s.Delete(ctx, "u1", doomed)))
}

func TestSessionsDeleteRetryAfterPartialFailure(t *testing.T) {
	ctx := context.Background()
	s, db := newSessions(t)

	id, err := s.Create(ctx, "u1", "")
	require.NoError(t, err)
	_, err = s.Append(ctx, "u1", id, "hi", reply("hey"))
	require.NoError(t, err)

	outage := errors.New("store unavailable")
	calls := 0
	db.FailCommitWith(func(writes []docstore.Write) error {
		calls++
		if calls == 2 {
			return outage
		}
		return nil
	})

	err = s.Delete(ctx, "u1", id)
	require.ErrorIs(t, err, outage)

	// The session document survives, so the cascade can be retried.
	require.NoError(t, s.Exists(ctx, "u1", id))

	db.FailCommitWith(nil)
	require.NoError(t, s.Delete(ctx, "u1", id))
	assert.True(t, apperr.IsNotFound(s.Exists(ctx, "u1", id)))
}
