package events

import (
	"encoding/json"
	"strings"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "REVIEW_SUBMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	ReviewSubmitted = "REVIEW_SUBMITTED"
	ReviewFailed    = "REVIEW_FAILED"
)

// Subject maps an event type onto a dotted NATS subject under prefix,
// e.g. REVIEW_SUBMITTED -> quality.review.submitted.
func Subject(prefix string, e Event) string {
	return prefix + "." + strings.ToLower(strings.ReplaceAll(e.EventType(), "_", "."))
}

// ReviewEvent records the outcome of one review submission attempt.
type ReviewEvent struct {
	Type          string          `json:"type"`
	SessionId     int64           `json:"session_id"`
	ReviewerId    string          `json:"reviewer_id"`
	WorkspaceId   string          `json:"workspace_id"`
	Score         int             `json:"score"`
	Grade         string          `json:"grade"`
	BackendStatus int             `json:"backend_status,omitempty"`
	Message       string          `json:"message,omitempty"`
	Submission    json.RawMessage `json:"submission,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func (e ReviewEvent) EventType() string {
	return e.Type
}

func (e ReviewEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":     e.SessionId,
		"reviewer_id":    e.ReviewerId,
		"workspace_id":   e.WorkspaceId,
		"score":          e.Score,
		"grade":          e.Grade,
		"backend_status": e.BackendStatus,
		"message":        e.Message,
		"occurred_at":    e.OccurredAt,
	}
}

func (e ReviewEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func (e ReviewEvent) Succeeded() bool {
	return e.Type == ReviewSubmitted
}
