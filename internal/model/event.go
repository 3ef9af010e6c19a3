package model

import (
	"time"
)

// TurnEvent is published to the turn journal after a turn has been persisted.
type TurnEvent struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ChatID    string    `json:"chat_id"`
	MessageID string    `json:"message_id"`
	Gated     bool      `json:"gated"`
	Degraded  bool      `json:"degraded"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
