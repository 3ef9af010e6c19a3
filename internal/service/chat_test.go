package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/stylist"
)

func fenced(json string) string {
	return "Here you go!\n```json\n" + json + "\n```"
}

func assertSafeExplain(t *testing.T, explain string) {
	t.Helper()
	assert.NotEmpty(t, explain)
	assert.LessOrEqual(t, utf8.RuneCountInString(explain), stylist.ExplainMaxRunes)
	assert.NotContains(t, strings.ToLower(explain), "unable to parse json")
}

func TestSendLowMoodFirstMessage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, fenced(`{"reply":"Sending you a big virtual hug. Take it slow tonight.","explain":"","tags":["comfort"]}`))
	h.seedProfile(t, "u1", &model.Profile{BodyType: "athletic", SkinTone: "tan"})

	res, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "feeling kinda low today"})
	require.NoError(t, err)

	require.NotEmpty(t, res.ChatID)
	assert.Contains(t, res.Reply, "💛")
	assertSafeExplain(t, res.Explain)
	assert.Equal(t, []string{"comfort"}, res.Tags)

	require.NotNil(t, h.gateway.last)
	msgs := h.gateway.last.Messages
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "Body: athletic;")
	assert.Contains(t, msgs[1].Content, "Skin: tan;")
	assert.Equal(t, 400, h.gateway.last.MaxTokens)

	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, res.Reply, sessions[0].Messages[0].Response.Reply)

	require.Len(t, h.journal.events, 1)
	assert.Equal(t, res.ChatID, h.journal.events[0].ChatID)
	assert.False(t, h.journal.events[0].Degraded)
}

func TestSendGatedNeverCallsGateway(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "can you solve this equation"})
	require.NoError(t, err)
	assert.Equal(t, 0, h.gateway.calls)
	assert.Equal(t, []string{stylist.BoundaryTag}, res.Tags)
	assert.Equal(t, "Keeping focus on fashion & lifestyle.", res.Explain)

	res, err = h.chat.Send(ctx, "u1", &model.SendChatRequest{ChatID: res.ChatID, Message: "teach me calculus"})
	require.NoError(t, err)
	assert.Equal(t, 0, h.gateway.calls)
	assert.Equal(t, "Scope limited to fashion & lifestyle.", res.Explain)

	require.Len(t, h.journal.events, 2)
	assert.True(t, h.journal.events[1].Gated)
}

func TestSendDegradedOutput(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "Just wear something comfy!")
	h.seedProfile(t, "u1", &model.Profile{Email: "a@b.c"})

	res, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "hi there"})
	require.NoError(t, err)

	assert.Equal(t, "Just wear something comfy!", res.Reply)
	assert.Equal(t, "Just wear something comfy!", res.Explain)
	assert.Equal(t, []string{}, res.Tags)
	assertSafeExplain(t, res.Explain)

	require.Len(t, h.journal.events, 1)
	assert.True(t, h.journal.events[0].Degraded)
}

func TestSendReplaysPriorTurnsAndDiversifies(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t,
		fenced(`{"reply":"Try a denim jacket with a white tee.","explain":"Denim and white always balance.","tags":["casual"]}`),
		fenced(`{"reply":"Anything exciting happen today?","explain":"Anything exciting happen today?","tags":[]}`),
	)
	h.seedProfile(t, "u1", &model.Profile{Region: "IN"})

	first, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "what should i wear"})
	require.NoError(t, err)
	assert.Equal(t, "Try a denim jacket with a white tee. 👗", first.Reply)
	assert.Equal(t, "Denim and white always balance.", first.Explain)

	second, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{ChatID: first.ChatID, Message: "tell me something fun"})
	require.NoError(t, err)
	assert.Equal(t, first.ChatID, second.ChatID)
	assert.Equal(t, "Noted. Should we keep it comfy or add a bit of polish today? 👋", second.Reply)
	assertSafeExplain(t, second.Explain)

	msgs := h.gateway.last.Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, "what should i wear", msgs[1].Content)
	assert.Equal(t, first.Reply, msgs[2].Content)
	assert.Contains(t, msgs[3].Content, "User says: tell me something fun")
}

func TestSendUpstreamFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.gateway.err = errGatewayDown
	h.seedProfile(t, "u1", &model.Profile{Email: "a@b.c"})

	_, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))

	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Empty(t, h.journal.events)
}

func TestSendNewChatWriteFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	outage := errors.New("store unavailable")
	h.db.FailCommitWith(func(writes []docstore.Write) error {
		for _, w := range writes {
			if strings.Contains(w.Path, "/messages/") {
				return outage
			}
		}
		return nil
	})

	_, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "physics question"})
	require.ErrorIs(t, err, outage)

	h.db.FailCommitWith(nil)
	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Empty(t, h.journal.events)
}

func TestSendMissingProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, fenced(`{"reply":"hey"}`))

	_, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, h.gateway.calls)

	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{ChatID: "nope", Message: "hi"})
	assert.True(t, apperr.IsNotFound(err))

	empty, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Mode: "chill"})
	require.NoError(t, err)
	require.NotEmpty(t, empty.ChatID)
	assert.Nil(t, empty.Response)

	_, err = h.chat.Send(ctx, "u1", &model.SendChatRequest{ChatID: empty.ChatID, Message: "   "})
	assert.True(t, apperr.IsInvalidInput(err))

	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "chill", sessions[0].Mode)
	assert.Empty(t, sessions[0].Messages)
	assert.Equal(t, 0, h.gateway.calls)
}

func TestSendJournalFailureIsBestEffort(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.journal.err = errGatewayDown

	res, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "physics question"})
	require.NoError(t, err)

	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.ChatID, sessions[0].ID)
}

func TestDeleteChat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.chat.Send(ctx, "u1", &model.SendChatRequest{Message: "biology help"})
	require.NoError(t, err)

	require.NoError(t, h.chat.Delete(ctx, "u1", res.ChatID))

	sessions, err := h.chat.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	err = h.chat.Delete(ctx, "u1", res.ChatID)
	assert.True(t, apperr.IsNotFound(err))
}
