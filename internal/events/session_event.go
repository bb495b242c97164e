package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	SessionEventAsk    = "event:session:ask"
	SessionEventAnswer = "event:session:answer"
	SessionEventFail   = "event:session:fail"
	SessionEventSwitch = "event:session:switch"
	SessionEventDelete = "event:session:delete"
)

// SessionEvent is a simple struct representing a session lifecycle payload
type SessionEvent struct {
	ID             string            `json:"id"`
	Type           EventType         `json:"type"`
	Message        string            `json:"message"`
	Timestamp      time.Time         `json:"timestamp"`
	ConversationID string            `json:"conversationId,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const conversationContextKey contextKey = "policyqa/events/conversation"

// WithConversation returns a derived context annotated with the given
// conversation id so event emitters can automatically scope payloads.
func WithConversation(ctx context.Context, conversationID string) context.Context {
	if strings.TrimSpace(conversationID) == "" {
		return ctx
	}
	return context.WithValue(ctx, conversationContextKey, conversationID)
}

// ConversationFromContext extracts the conversation id associated with ctx.
func ConversationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(conversationContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateSessionEvent(eventType EventType, message string) SessionEvent {
	return SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info SessionEvent.
func NewInfo(message string) SessionEvent {
	return CreateSessionEvent(EventInfo, message)
}

// NewWarn creates a warn SessionEvent.
func NewWarn(message string) SessionEvent {
	return CreateSessionEvent(EventWarn, message)
}

// NewError creates an error SessionEvent.
func NewError(message string) SessionEvent {
	return CreateSessionEvent(EventError, message)
}

// NewSuccess creates a success SessionEvent.
func NewSuccess(message string) SessionEvent {
	return CreateSessionEvent(EventSuccess, message)
}
