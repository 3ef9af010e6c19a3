// Package model defines data structures for the stylist platform.
package model

// Session is an owner-scoped chat thread. Timestamps are ISO-8601 strings as
// produced by the timestamp normalizer.
type Session struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
	Mode      string         `json:"mode,omitempty"`
	Messages  []MessageEntry `json:"messages"`
}

// SendChatRequest is the body of POST /chat. Without ChatID a new session is
// started; without Message the session is created empty.
type SendChatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// ChatResult is returned for every chat turn.
type ChatResult struct {
	ChatID string `json:"chatId"`
	*Response
}

// ListChatsResponse is the response for listing an owner's sessions.
type ListChatsResponse struct {
	Chats []Session `json:"chats"`
}
