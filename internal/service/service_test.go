package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stylie-ai/stylist-platform/internal/docstore"
	"github.com/stylie-ai/stylist-platform/internal/llm"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/store"
	"github.com/stylie-ai/stylist-platform/pkg/cache"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
)

type fakeGateway struct {
	replies []string
	err     error
	calls   int
	last    *llm.CompletionRequest
}

func (f *fakeGateway) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	content := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return &llm.CompletionResponse{Content: content, TokensIn: 10, TokensOut: 5}, nil
}

func (f *fakeGateway) Name() string { return "fake" }

type fakeJournal struct {
	events []*model.TurnEvent
	err    error
}

func (f *fakeJournal) PublishTurn(_ context.Context, event *model.TurnEvent) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.events = append(f.events, event)
	return uint64(len(f.events)), nil
}

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

type harness struct {
	chat     *ChatService
	profiles *ProfileService
	store    *store.Profiles
	gateway  *fakeGateway
	journal  *fakeJournal
	db       *docstore.Memory
}

func newHarness(t *testing.T, replies ...string) *harness {
	t.Helper()

	db := docstore.NewMemory()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	db.SetClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	})

	log := logger.NewNop()
	profileStore := store.NewProfiles(db)
	profiles := NewProfileService(profileStore, cache.NewMemory(), time.Minute, log)
	gateway := &fakeGateway{replies: append(replies, "")}
	journal := &fakeJournal{}

	chat := NewChatService(store.NewSessions(db), profiles, gateway, journal, ChatConfig{
		Model:       "gpt-4-turbo",
		Temperature: 0.9,
		MaxTokens:   400,
		Picker:      fixedPicker(1),
	}, log)

	return &harness{
		chat:     chat,
		profiles: profiles,
		store:    profileStore,
		gateway:  gateway,
		journal:  journal,
		db:       db,
	}
}

func (h *harness) seedProfile(t *testing.T, owner string, p *model.Profile) {
	t.Helper()
	_, err := h.store.Merge(context.Background(), owner, p)
	require.NoError(t, err)
}

var errGatewayDown = errors.New("connection reset")

func newWardrobeStore(h *harness) *store.Wardrobe {
	return store.NewWardrobe(h.db)
}

func nopLogger() *logger.Logger {
	return logger.NewNop()
}
