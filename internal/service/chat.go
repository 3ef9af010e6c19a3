// Package service orchestrates the chat pipeline and the profile, wardrobe and
// media operations on top of the stores and external gateways.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/llm"
	"github.com/stylie-ai/stylist-platform/internal/model"
	"github.com/stylie-ai/stylist-platform/internal/store"
	"github.com/stylie-ai/stylist-platform/internal/stylist"
	"github.com/stylie-ai/stylist-platform/pkg/logger"
	"github.com/stylie-ai/stylist-platform/pkg/metrics"
	"github.com/stylie-ai/stylist-platform/pkg/tracing"
)

// TurnJournal receives every recorded turn.
type TurnJournal interface {
	PublishTurn(ctx context.Context, event *model.TurnEvent) (uint64, error)
}

// ChatConfig tunes the model call and the reply post-processor.
type ChatConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// Picker chooses diversification alternatives; nil picks uniformly at random.
	Picker stylist.Picker
}

// ChatService runs one chat turn end to end.
type ChatService struct {
	sessions *store.Sessions
	profiles *ProfileService
	gateway  llm.Client
	journal  TurnJournal
	post     *stylist.PostProcessor
	cfg      ChatConfig
	tracer   trace.Tracer
	logger   *logger.Logger
}

// NewChatService creates a new chat service. journal may be nil.
func NewChatService(
	sessions *store.Sessions,
	profiles *ProfileService,
	gateway llm.Client,
	journal TurnJournal,
	cfg ChatConfig,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		profiles: profiles,
		gateway:  gateway,
		journal:  journal,
		post:     stylist.NewPostProcessor(cfg.Picker, metrics.RecordRewrite),
		cfg:      cfg,
		tracer:   tracing.Tracer("stylie/service/chat"),
		logger:   log,
	}
}

// Send handles one inbound message. Without a chat id a new session is
// started; with neither chat id nor message an empty session is created.
// Nothing is persisted unless the full response was produced.
func (s *ChatService) Send(ctx context.Context, owner string, req *model.SendChatRequest) (*model.ChatResult, error) {
	newChat := req.ChatID == ""
	ctx, span := s.tracer.Start(ctx, "chat.send", trace.WithAttributes(
		attribute.String("chat.id", req.ChatID),
		attribute.Bool("chat.new", newChat),
	))
	defer span.End()

	result, err := s.send(ctx, owner, req, newChat)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.UserMessage(err))
		return nil, err
	}
	return result, nil
}

func (s *ChatService) send(ctx context.Context, owner string, req *model.SendChatRequest, newChat bool) (*model.ChatResult, error) {
	message := strings.TrimSpace(req.Message)

	if newChat && message == "" {
		chatID, err := s.createSession(ctx, owner, req.Mode)
		if err != nil {
			return nil, err
		}
		return &model.ChatResult{ChatID: chatID}, nil
	}
	if message == "" {
		return nil, apperr.InvalidInput("message is required")
	}
	if !newChat {
		if err := s.sessions.Exists(ctx, owner, req.ChatID); err != nil {
			return nil, err
		}
	}

	resp, outcome, err := s.respond(ctx, owner, req.ChatID, message, newChat)
	if err != nil {
		return nil, err
	}
	stylist.FinalizeExplain(resp)

	chatID, msgID, err := s.persist(ctx, owner, req, message, resp)
	if err != nil {
		return nil, err
	}
	metrics.RecordTurn(outcome)

	s.publish(ctx, &model.TurnEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		OwnerID:   owner,
		ChatID:    chatID,
		MessageID: msgID,
		Gated:     outcome == metrics.OutcomeGated,
		Degraded:  outcome == metrics.OutcomeDegraded,
		Tags:      resp.Tags,
		CreatedAt: time.Now().UTC(),
	})

	return &model.ChatResult{ChatID: chatID, Response: resp}, nil
}

// respond produces the structured response for message without persisting anything.
func (s *ChatService) respond(ctx context.Context, owner, chatID, message string, newChat bool) (*model.Response, string, error) {
	if resp, gated := stylist.Gate(message, newChat); gated {
		return resp, metrics.OutcomeGated, nil
	}

	profile, err := s.profiles.Get(ctx, owner)
	if err != nil {
		return nil, "", err
	}

	var prior []model.Turn
	if !newChat {
		if prior, err = s.sessions.RecentTurns(ctx, owner, chatID, stylist.MaxPriorTurns); err != nil {
			return nil, "", err
		}
	}

	raw, err := s.complete(ctx, stylist.BuildPrompt(profile, message, prior))
	if err != nil {
		return nil, "", err
	}

	ext := stylist.Extract(raw)
	if !ext.OK {
		s.logger.Warn("model output was not a JSON object",
			zap.String("chat_id", chatID),
			zap.Int("length", len(raw)),
		)
		return ext.Response, metrics.OutcomeDegraded, nil
	}

	resp := ext.Response
	if ext.ReplyIsString {
		var last string
		if n := len(prior); n > 0 {
			last = prior[n-1].AssistantReply
		}
		resp.Reply = s.post.Process(resp.Reply, message, last)
	}
	return resp, metrics.OutcomeModel, nil
}

func (s *ChatService) complete(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	ctx, span := s.tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.provider", s.gateway.Name()),
	))
	defer span.End()

	start := time.Now()
	resp, err := s.gateway.Complete(ctx, &llm.CompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		metrics.RecordCompletion(s.gateway.Name(), "error", time.Since(start).Seconds(), 0, 0)
		span.RecordError(err)
		s.logger.Error("model gateway call failed", zap.String("provider", s.gateway.Name()), zap.Error(err))
		return "", apperr.Upstream("model gateway", err)
	}

	metrics.RecordCompletion(s.gateway.Name(), "ok", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)
	span.SetAttributes(
		attribute.Int("llm.tokens_in", resp.TokensIn),
		attribute.Int("llm.tokens_out", resp.TokensOut),
	)
	return resp.Content, nil
}

// persist stores the turn. A new chat and its first entry are written in one batch.
func (s *ChatService) persist(ctx context.Context, owner string, req *model.SendChatRequest, message string, resp *model.Response) (string, string, error) {
	if req.ChatID != "" {
		msgID, err := s.sessions.Append(ctx, owner, req.ChatID, message, resp)
		return req.ChatID, msgID, err
	}

	chatID, msgID, err := s.sessions.Start(ctx, owner, req.Mode, message, resp)
	if err != nil {
		return "", "", err
	}
	metrics.SessionsCreatedTotal.Inc()
	return chatID, msgID, nil
}

func (s *ChatService) createSession(ctx context.Context, owner, mode string) (string, error) {
	chatID, err := s.sessions.Create(ctx, owner, mode)
	if err != nil {
		return "", err
	}
	metrics.SessionsCreatedTotal.Inc()
	return chatID, nil
}

// publish is best effort: the turn is already stored.
func (s *ChatService) publish(ctx context.Context, event *model.TurnEvent) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.PublishTurn(ctx, event); err != nil {
		metrics.JournalPublishFailures.Inc()
		s.logger.Warn("failed to publish turn event",
			zap.String("chat_id", event.ChatID),
			zap.String("message_id", event.MessageID),
			zap.Error(err),
		)
	}
}

// List returns the owner's sessions, newest first, with their message logs.
func (s *ChatService) List(ctx context.Context, owner string) ([]model.Session, error) {
	return s.sessions.List(ctx, owner)
}

// Delete removes a session and its whole message log.
func (s *ChatService) Delete(ctx context.Context, owner, chatID string) error {
	if err := s.sessions.Delete(ctx, owner, chatID); err != nil {
		return err
	}
	metrics.SessionsDeletedTotal.Inc()
	s.logger.Info("chat deleted", zap.String("chat_id", chatID))
	return nil
}
