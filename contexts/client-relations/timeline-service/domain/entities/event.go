package entities

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType tags a timeline entry. The known set is closed over the core
// producers; unknown labels pass through untouched so manual entries can
// carry their own tags.
type EventType string

const (
	EventTypeComment      EventType = "comment"
	EventTypeDocumentLink EventType = "document_link"
	EventTypeEmail        EventType = "email"
	EventTypeReply        EventType = "reply"
	EventTypeUnsubscribed EventType = "unsubscribed"
)

// ParseEventType normalizes a label to a known type when it matches one,
// otherwise carries the label as-is.
func ParseEventType(label string) EventType {
	normalized := EventType(strings.ToLower(strings.TrimSpace(label)))
	switch normalized {
	case EventTypeComment, EventTypeDocumentLink, EventTypeEmail, EventTypeReply, EventTypeUnsubscribed:
		return normalized
	}
	return EventType(strings.TrimSpace(label))
}

// Event is an immutable timeline entry attributed to one client and one
// manager. Payload is a free-form document; typical keys are text, subject
// and url.
type Event struct {
	EventID   string
	ClientID  string
	ManagerID string
	Type      EventType
	Payload   map[string]any
	CreatedAt time.Time
}

// NewEvent is the input shape for an append.
type NewEvent struct {
	ClientID  string
	ManagerID string
	Type      EventType
	Payload   map[string]any
}

// EventWithManager pairs an event with the attributed manager's display
// attributes for listing responses.
type EventWithManager struct {
	Event
	ManagerName  string
	ManagerEmail string
}

// CanonicalPayload serializes a payload with deterministic key order so two
// semantically equal payloads always compare byte-equal.
func CanonicalPayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	return json.Marshal(payload)
}
