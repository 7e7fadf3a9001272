package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now()
	e := NewEvent()

	assert.NotEmpty(t, e.CorrelationID)
	assert.False(t, e.Timestamp.Before(before))
	assert.NotEqual(t, e.CorrelationID, NewEvent().CorrelationID)
}

func TestNewEventWithCorrelation(t *testing.T) {
	assert.Equal(t, "req-1", NewEventWithCorrelation("req-1").CorrelationID)
	assert.NotEmpty(t, NewEventWithCorrelation("").CorrelationID)
}

func TestTaskListGenerated_JSON(t *testing.T) {
	event := TaskListGenerated{
		Event:      NewEvent(),
		UserID:     "user-1",
		TaskListID: "list-1",
		Vendor:     "huggingface",
		Model:      "meta-llama/Llama-3.1-8B-Instruct",
		TaskCount:  4,
		Persisted:  true,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "list-1", fields["task_list_id"])
	assert.Equal(t, float64(4), fields["task_count"])
	assert.Equal(t, true, fields["persisted"])
	assert.Contains(t, fields, "correlation_id")
}

func TestTaskListGenerated_PreviewOmitsListID(t *testing.T) {
	data, err := json.Marshal(TaskListGenerated{Event: NewEvent(), UserID: "u", Vendor: "gemini"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "task_list_id")
}
