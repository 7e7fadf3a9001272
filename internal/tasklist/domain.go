package tasklist

import (
	"strings"
	"time"

	"todoai-api/internal/common"
)

// TaskList is an ordered collection of tasks owned by one user
type TaskList struct {
	ID           common.TaskListID `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       common.UserID     `gorm:"type:varchar(36);not null;index" json:"userId"`
	Name         string            `gorm:"type:varchar(255);not null" json:"name"`
	Description  string            `gorm:"type:text" json:"description,omitempty"`
	SourcePrompt string            `gorm:"type:text" json:"sourcePrompt,omitempty"`
	Tasks        []Task            `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"tasks"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`

	TotalTasks     int `gorm:"-" json:"totalTasks"`
	CompletedTasks int `gorm:"-" json:"completedTasks"`
}

// TableName returns the table name for the TaskList model
func (TaskList) TableName() string {
	return "task_lists"
}

// Task is one item of a TaskList, ordered by Position
type Task struct {
	ID          common.TaskID     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ListID      common.TaskListID `gorm:"type:varchar(36);not null;index" json:"listId"`
	Title       string            `gorm:"type:varchar(255);not null" json:"title"`
	Description string            `gorm:"type:text" json:"description,omitempty"`
	Position    int               `gorm:"not null;default:0" json:"position"`
	IsCompleted bool              `gorm:"not null;default:false" json:"isCompleted"`
	Priority    common.Priority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Category    string            `gorm:"type:varchar(100)" json:"category,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// NewTaskListInput is what callers provide to create a list
type NewTaskListInput struct {
	UserID       common.UserID
	Name         string
	Description  string
	SourcePrompt string
}

// NewTaskInput is what callers provide to create a task
type NewTaskInput struct {
	ListID      common.TaskListID
	Title       string
	Description string
	Position    int
	Priority    common.Priority
	Category    string
}

// withCounts fills the derived task counters
func (l *TaskList) withCounts() {
	l.TotalTasks = len(l.Tasks)
	l.CompletedTasks = 0
	for _, t := range l.Tasks {
		if t.IsCompleted {
			l.CompletedTasks++
		}
	}
}

// TaskFilter narrows ListTasks. A nil Completed returns every task.
type TaskFilter struct {
	Completed *bool
}

// TaskUpdate holds the task fields a PATCH may change; nil fields are kept
type TaskUpdate struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Priority    *common.Priority `json:"priority"`
	Category    *string          `json:"category"`
	Position    *int             `json:"position"`
	IsCompleted *bool            `json:"isCompleted"`
}

// TaskListUpdate holds the list fields a PATCH may change
type TaskListUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// columns validates u and returns the changed columns
func (u TaskUpdate) columns() (map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, common.ValidationError{Field: "title", Message: "task title is required"}
		}
		cols["title"] = title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Priority != nil {
		if !u.Priority.IsValid() {
			return nil, common.ValidationError{Field: "priority", Message: "priority must be low, medium or high"}
		}
		cols["priority"] = string(*u.Priority)
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.Position != nil {
		if *u.Position < 0 {
			return nil, common.ValidationError{Field: "position", Message: "position must not be negative"}
		}
		cols["position"] = *u.Position
	}
	if u.IsCompleted != nil {
		cols["is_completed"] = *u.IsCompleted
	}
	return cols, nil
}

// columns validates u and returns the changed columns
func (u TaskListUpdate) columns() (map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, common.ValidationError{Field: "name", Message: "task list name is required"}
		}
		cols["name"] = name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	return cols, nil
}

// Apply copies the set fields onto t
func (u TaskUpdate) Apply(t *Task) error {
	cols, err := u.columns()
	if err != nil {
		return err
	}
	if title, ok := cols["title"].(string); ok {
		t.Title = title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Position != nil {
		t.Position = *u.Position
	}
	if u.IsCompleted != nil {
		t.IsCompleted = *u.IsCompleted
	}
	return nil
}

// Apply copies the set fields onto l
func (u TaskListUpdate) Apply(l *TaskList) error {
	cols, err := u.columns()
	if err != nil {
		return err
	}
	if name, ok := cols["name"].(string); ok {
		l.Name = name
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	return nil
}
