package middleware

import (
	"strings"
	"unicode/utf8"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
)

const (
	maxMessageBytes = 8 * 1024
	maxIDLength     = 128
)

// ValidateMessageContent validates chat message text. Empty text is allowed;
// whether it is required depends on the operation.
func ValidateMessageContent(content string) error {
	if len(content) > maxMessageBytes {
		return apperr.InvalidInput("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return apperr.InvalidInput("message must be valid UTF-8")
	}
	return nil
}

// ValidateDocumentID validates an id that becomes a document path segment.
func ValidateDocumentID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidInput(kind + " is required")
	}
	if len(id) > maxIDLength || strings.ContainsAny(id, "/.") {
		return apperr.InvalidInput("invalid " + kind + " format")
	}
	return nil
}
