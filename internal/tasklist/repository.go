package tasklist

import (
	"context"

	"todoai-api/internal/common"
)

// Repository persists task lists and tasks
type Repository interface {
	CreateTaskList(ctx context.Context, in NewTaskListInput) (*TaskList, error)
	CreateTask(ctx context.Context, in NewTaskInput) (*Task, error)
	GetTaskList(ctx context.Context, id common.TaskListID) (*TaskList, error)
	ListTaskListsWithTasks(ctx context.Context, userID common.UserID) ([]TaskList, error)
	DeleteTaskList(ctx context.Context, id common.TaskListID) error
	GetTask(ctx context.Context, id common.TaskID) (*Task, error)
	SetTaskCompleted(ctx context.Context, id common.TaskID, completed bool) error
	UpdateTaskList(ctx context.Context, id common.TaskListID, update TaskListUpdate) (*TaskList, error)
	ListTasks(ctx context.Context, userID common.UserID, filter TaskFilter) ([]Task, error)
	UpdateTask(ctx context.Context, id common.TaskID, update TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, id common.TaskID) error
}
