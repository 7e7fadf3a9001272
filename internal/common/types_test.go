package common

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Generation(t *testing.T) {
	tests := []struct {
		name string
		test func(*testing.T)
	}{
		{
			name: "NewID generates unique IDs",
			test: func(t *testing.T) {
				id1 := NewID()
				id2 := NewID()

				assert.NotEqual(t, id1, id2)
				assert.NotEmpty(t, id1)
			},
		},
		{
			name: "NewID generates valid UUIDs",
			test: func(t *testing.T) {
				id := NewID()
				assert.True(t, id.IsValid())

				_, err := uuid.Parse(string(id))
				assert.NoError(t, err)
			},
		},
		{
			name: "IsValid returns false for invalid UUIDs",
			test: func(t *testing.T) {
				for _, invalidID := range []string{"invalid-uuid", "", "550e8400-e29b-41d4-a716"} {
					assert.False(t, ID(invalidID).IsValid(), "Expected %s to be invalid", invalidID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func TestID_JSONRoundTrip(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded ID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestPriority(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		valid    bool
		str      string
	}{
		{"PriorityLow", PriorityLow, true, "low"},
		{"PriorityMedium", PriorityMedium, true, "medium"},
		{"PriorityHigh", PriorityHigh, true, "high"},
		{"Urgent is not a list priority", Priority("urgent"), false, "urgent"},
		{"Empty priority", Priority(""), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.priority.IsValid())
			assert.Equal(t, tt.str, tt.priority.String())
		})
	}
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ParsePriority("HIGH"))
	assert.Equal(t, PriorityLow, ParsePriority("  low "))
	assert.Equal(t, PriorityMedium, ParsePriority("urgent"))
	assert.Equal(t, PriorityMedium, ParsePriority(""))
}

func TestErrorTypes(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ValidationError", ValidationError{Field: "name", Message: "required"}, "validation error for field 'name': required"},
		{"NotFoundError", NotFoundError{Resource: "User", ID: "u1"}, "User with ID 'u1' not found"},
		{"ConflictError", ConflictError{Resource: "Provider", Key: "gemini"}, "Provider 'gemini' already exists"},
		{"InternalError", InternalError{Message: "boom", Cause: cause}, "internal error: boom (caused by: connection refused)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}

	assert.ErrorIs(t, InternalError{Message: "boom", Cause: cause}, cause)
}

func TestWrapRepositoryError(t *testing.T) {
	assert.NoError(t, WrapRepositoryError(nil, "create user"))

	cause := errors.New("deadlock detected")
	err := WrapRepositoryError(cause, "create user")
	assert.EqualError(t, err, "repository error during create user: deadlock detected")
	assert.ErrorIs(t, err, cause)
}
