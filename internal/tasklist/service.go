package tasklist

import (
	"context"

	"todoai-api/internal/common"

	"go.uber.org/zap"
)

// Service exposes a user's task lists. Every operation checks ownership and
// reports lists of other users as not found.
type Service interface {
	ListForUser(ctx context.Context, userID common.UserID) ([]TaskList, error)
	Get(ctx context.Context, userID common.UserID, id common.TaskListID) (*TaskList, error)
	Delete(ctx context.Context, userID common.UserID, id common.TaskListID) error
	ToggleTask(ctx context.Context, userID common.UserID, id common.TaskID) (*Task, error)

	CreateList(ctx context.Context, userID common.UserID, in NewTaskListInput) (*TaskList, error)
	UpdateList(ctx context.Context, userID common.UserID, id common.TaskListID, update TaskListUpdate) (*TaskList, error)
	CreateTask(ctx context.Context, userID common.UserID, in NewTaskInput) (*Task, error)
	ListTasks(ctx context.Context, userID common.UserID, filter TaskFilter) ([]Task, error)
	GetTask(ctx context.Context, userID common.UserID, id common.TaskID) (*Task, error)
	UpdateTask(ctx context.Context, userID common.UserID, id common.TaskID, update TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, userID common.UserID, id common.TaskID) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) ListForUser(ctx context.Context, userID common.UserID) ([]TaskList, error) {
	lists, err := s.repo.ListTaskListsWithTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []TaskList{}
	}
	return lists, nil
}

func (s *service) Get(ctx context.Context, userID common.UserID, id common.TaskListID) (*TaskList, error) {
	list, err := s.repo.GetTaskList(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, common.NotFoundError{Resource: "TaskList", ID: string(id)}
	}
	return list, nil
}

func (s *service) Delete(ctx context.Context, userID common.UserID, id common.TaskListID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTaskList(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Task list deleted", zap.String("listID", string(id)), zap.String("userID", string(userID)))
	return nil
}

func (s *service) ToggleTask(ctx context.Context, userID common.UserID, id common.TaskID) (*Task, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	if err := s.repo.SetTaskCompleted(ctx, id, task.IsCompleted); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateList stores an empty list for userID. The owner always comes from
// the caller, never from in.
func (s *service) CreateList(ctx context.Context, userID common.UserID, in NewTaskListInput) (*TaskList, error) {
	in.UserID = userID
	list, err := s.repo.CreateTaskList(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Task list created", zap.String("listID", string(list.ID)), zap.String("userID", string(userID)))
	return list, nil
}

func (s *service) UpdateList(ctx context.Context, userID common.UserID, id common.TaskListID, update TaskListUpdate) (*TaskList, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateTaskList(ctx, id, update)
}

// CreateTask appends a task to the end of one of the caller's lists
func (s *service) CreateTask(ctx context.Context, userID common.UserID, in NewTaskInput) (*Task, error) {
	if in.ListID == "" {
		return nil, common.ValidationError{Field: "listId", Message: "task list id is required"}
	}
	list, err := s.Get(ctx, userID, in.ListID)
	if err != nil {
		return nil, err
	}

	in.Position = 0
	for _, t := range list.Tasks {
		if t.Position >= in.Position {
			in.Position = t.Position + 1
		}
	}
	return s.repo.CreateTask(ctx, in)
}

func (s *service) ListTasks(ctx context.Context, userID common.UserID, filter TaskFilter) ([]Task, error) {
	tasks, err := s.repo.ListTasks(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// GetTask reports tasks in lists of other users as not found
func (s *service) GetTask(ctx context.Context, userID common.UserID, id common.TaskID) (*Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, task.ListID); err != nil {
		return nil, common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	return task, nil
}

func (s *service) UpdateTask(ctx context.Context, userID common.UserID, id common.TaskID, update TaskUpdate) (*Task, error) {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateTask(ctx, id, update)
}

func (s *service) DeleteTask(ctx context.Context, userID common.UserID, id common.TaskID) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Task deleted", zap.String("taskID", string(id)), zap.String("userID", string(userID)))
	return nil
}
