package model

// Role represents the role of a prompt turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Response is the structured unit produced per turn.
type Response struct {
	Reply       string   `json:"reply"`
	Explain     string   `json:"explain"`
	Tags        []string `json:"tags"`
	ImagePrompt string   `json:"image_prompt,omitempty"`
}

// MessageEntry is one append-only record in a session's message log.
type MessageEntry struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"userMessage"`
	Response    *Response `json:"response,omitempty"`
	Timestamp   string    `json:"timestamp,omitempty"`
}

// Turn is a prior exchange fed back into the prompt.
type Turn struct {
	UserMessage    string
	AssistantReply string
}
