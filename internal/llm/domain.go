package llm

import (
	"todoai-api/internal/common"
)

// TaskSuggestion is one parsed, validated candidate task
type TaskSuggestion struct {
	Title       string          `json:"title" jsonschema:"minLength=1,maxLength=100,description=Short actionable task title"`
	Description string          `json:"description,omitempty" jsonschema:"description=Optional details for the task"`
	Priority    common.Priority `json:"priority" jsonschema:"enum=low,enum=medium,enum=high,default=medium"`
	Category    string          `json:"category,omitempty" jsonschema:"description=Optional free text grouping"`
}

// TaskListDraft is the unpersisted output of a full generation
type TaskListDraft struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Tasks       []TaskSuggestion `json:"tasks"`
}

const (
	MaxTitleLength        = 100
	MaxLineSplitTasks     = 10
	MaxListTitleLength    = 60
	MaxListDescriptionLen = 200
	GeneratedCategory     = "generated"
)

// FallbackTasks is returned when model output cannot be turned into anything
// usable, so a successful call never yields an empty list.
func FallbackTasks() []TaskSuggestion {
	return []TaskSuggestion{
		{
			Title:       "Review generated tasks",
			Description: "The AI response could not be parsed, review and edit this list",
			Priority:    common.PriorityMedium,
			Category:    GeneratedCategory,
		},
		{
			Title:       "Add specific details",
			Description: "Add concrete steps for your goal",
			Priority:    common.PriorityMedium,
			Category:    GeneratedCategory,
		},
	}
}
