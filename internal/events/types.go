package events

import (
	"time"

	"github.com/google/uuid"
)

// Event represents the base event structure with common fields
type Event struct {
	CorrelationID string    `json:"correlation_id" validate:"required"`
	Timestamp     time.Time `json:"timestamp" validate:"required"`
}

// NewEvent creates a new base event with generated correlation ID
func NewEvent() Event {
	return Event{
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now(),
	}
}

// NewEventWithCorrelation keeps an existing correlation id, such as a request id
func NewEventWithCorrelation(correlationID string) Event {
	if correlationID == "" {
		return NewEvent()
	}
	return Event{CorrelationID: correlationID, Timestamp: time.Now()}
}

// TaskListGenerated is published after a generation produced a list
type TaskListGenerated struct {
	Event
	UserID     string `json:"user_id" validate:"required"`
	TaskListID string `json:"task_list_id,omitempty"`
	Vendor     string `json:"vendor" validate:"required"`
	Model      string `json:"model"`
	TaskCount  int    `json:"task_count"`
	Persisted  bool   `json:"persisted"`
}

// GenerationFailed is published when task generation surfaced an error
type GenerationFailed struct {
	Event
	UserID string `json:"user_id" validate:"required"`
	Vendor string `json:"vendor"`
	Kind   string `json:"kind" validate:"required"`
}

// CredentialTested is published after a key test
type CredentialTested struct {
	Event
	UserID string `json:"user_id,omitempty"`
	Vendor string `json:"vendor" validate:"required"`
	Valid  bool   `json:"valid"`
}

// Event topics
const (
	TopicTaskListGenerated = "tasklist.generated"
	TopicGenerationFailed  = "generation.failed"
	TopicCredentialTested  = "credential.tested"
)
