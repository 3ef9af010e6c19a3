package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/stylie-ai/stylist-platform/internal/model"
)

const (
	// StreamName is the name of the turn journal stream.
	StreamName = "STYLIE_TURNS"

	// SubjectPrefix is the prefix for all journal subjects.
	SubjectPrefix = "stylie"
)

// streamPublisher is the part of jetstream.JetStream the journal uses.
type streamPublisher interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Journal publishes recorded chat turns to JetStream.
type Journal struct {
	js        streamPublisher
	connected func() bool
}

// NewJournal creates a journal on top of a connected client.
func NewJournal(client *Client) *Journal {
	return &Journal{js: client.JetStream(), connected: client.IsConnected}
}

// EnsureStream ensures the journal stream exists with proper configuration.
func (j *Journal) EnsureStream(ctx context.Context) error {
	_, err := j.js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = j.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Recorded stylist chat turns",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// TurnSubject returns the subject a turn of ownerID's chat is published on.
func TurnSubject(ownerID, chatID string) string {
	return fmt.Sprintf("%s.%s.%s.turn", SubjectPrefix, subjectToken(ownerID), subjectToken(chatID))
}

// PublishTurn publishes a turn event and returns its stream sequence. The
// event id is the JetStream message id, so a repeated publish within the
// stream's duplicate window is stored once.
func (j *Journal) PublishTurn(ctx context.Context, event *model.TurnEvent) (uint64, error) {
	msg, err := turnMsg(event)
	if err != nil {
		return 0, err
	}

	ack, err := j.js.PublishMsg(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("failed to publish turn event: %w", err)
	}

	return ack.Sequence, nil
}

func turnMsg(event *model.TurnEvent) (*nats.Msg, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal turn event: %w", err)
	}

	msg := nats.NewMsg(TurnSubject(event.OwnerID, event.ChatID))
	msg.Data = data
	if event.ID != "" {
		msg.Header.Set(nats.MsgIdHdr, event.ID)
	}
	return msg, nil
}

// Ready reports whether the underlying connection is up.
func (j *Journal) Ready() bool {
	return j.connected()
}

// subjectToken replaces characters that carry meaning in NATS subjects.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}
