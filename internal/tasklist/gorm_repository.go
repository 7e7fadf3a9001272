package tasklist

import (
	"context"
	"errors"
	"strings"

	"todoai-api/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gormRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormRepository creates a new GORM-based task list repository
func NewGormRepository(db *gorm.DB, logger *zap.Logger) Repository {
	return &gormRepository{db: db, logger: logger}
}

func (r *gormRepository) CreateTaskList(ctx context.Context, in NewTaskListInput) (*TaskList, error) {
	list := &TaskList{
		ID:           common.TaskListID(common.NewID()),
		UserID:       in.UserID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		SourcePrompt: in.SourcePrompt,
	}
	if list.Name == "" {
		return nil, common.ValidationError{Field: "name", Message: "task list name is required"}
	}

	if err := r.db.WithContext(ctx).Omit("Tasks").Create(list).Error; err != nil {
		return nil, common.WrapRepositoryError(err, "create task list")
	}
	list.Tasks = []Task{}

	r.logger.Debug("Task list created", zap.String("listID", string(list.ID)), zap.String("userID", string(in.UserID)))
	return list, nil
}

func (r *gormRepository) CreateTask(ctx context.Context, in NewTaskInput) (*Task, error) {
	task := &Task{
		ID:          common.TaskID(common.NewID()),
		ListID:      in.ListID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Position:    in.Position,
		Priority:    in.Priority,
		Category:    in.Category,
	}
	if task.Title == "" {
		return nil, common.ValidationError{Field: "title", Message: "task title is required"}
	}
	if !task.Priority.IsValid() {
		task.Priority = common.PriorityMedium
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, common.WrapRepositoryError(err, "create task")
	}
	return task, nil
}

func (r *gormRepository) GetTaskList(ctx context.Context, id common.TaskListID) (*TaskList, error) {
	var list TaskList
	err := r.db.WithContext(ctx).
		Preload("Tasks", orderByPosition).
		Where("id = ?", id).
		First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "TaskList", ID: string(id)}
		}
		return nil, common.WrapRepositoryError(err, "get task list")
	}
	list.withCounts()
	return &list, nil
}

func (r *gormRepository) ListTaskListsWithTasks(ctx context.Context, userID common.UserID) ([]TaskList, error) {
	var lists []TaskList
	err := r.db.WithContext(ctx).
		Preload("Tasks", orderByPosition).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, common.WrapRepositoryError(err, "list task lists")
	}
	for i := range lists {
		lists[i].withCounts()
	}
	return lists, nil
}

func (r *gormRepository) DeleteTaskList(ctx context.Context, id common.TaskListID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&Task{}).Error; err != nil {
			return common.WrapRepositoryError(err, "delete tasks")
		}
		result := tx.Where("id = ?", id).Delete(&TaskList{})
		if result.Error != nil {
			return common.WrapRepositoryError(result.Error, "delete task list")
		}
		if result.RowsAffected == 0 {
			return common.NotFoundError{Resource: "TaskList", ID: string(id)}
		}
		return nil
	})
}

func (r *gormRepository) GetTask(ctx context.Context, id common.TaskID) (*Task, error) {
	var task Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "Task", ID: string(id)}
		}
		return nil, common.WrapRepositoryError(err, "get task")
	}
	return &task, nil
}

func (r *gormRepository) SetTaskCompleted(ctx context.Context, id common.TaskID, completed bool) error {
	result := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Update("is_completed", completed)
	if result.Error != nil {
		return common.WrapRepositoryError(result.Error, "update task")
	}
	if result.RowsAffected == 0 {
		return common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	return nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *gormRepository) UpdateTaskList(ctx context.Context, id common.TaskListID, update TaskListUpdate) (*TaskList, error) {
	cols, err := update.columns()
	if err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		result := r.db.WithContext(ctx).Model(&TaskList{}).Where("id = ?", id).Updates(cols)
		if result.Error != nil {
			return nil, common.WrapRepositoryError(result.Error, "update task list")
		}
		if result.RowsAffected == 0 {
			return nil, common.NotFoundError{Resource: "TaskList", ID: string(id)}
		}
	}
	return r.GetTaskList(ctx, id)
}

// ListTasks returns the tasks of every list owned by userID, newest first
func (r *gormRepository) ListTasks(ctx context.Context, userID common.UserID, filter TaskFilter) ([]Task, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN task_lists ON task_lists.id = tasks.list_id").
		Where("task_lists.user_id = ?", userID)
	if filter.Completed != nil {
		query = query.Where("tasks.is_completed = ?", *filter.Completed)
	}

	var tasks []Task
	if err := query.Order("tasks.created_at DESC").Order("tasks.position ASC").Find(&tasks).Error; err != nil {
		return nil, common.WrapRepositoryError(err, "list tasks")
	}
	return tasks, nil
}

func (r *gormRepository) UpdateTask(ctx context.Context, id common.TaskID, update TaskUpdate) (*Task, error) {
	cols, err := update.columns()
	if err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		result := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Updates(cols)
		if result.Error != nil {
			return nil, common.WrapRepositoryError(result.Error, "update task")
		}
		if result.RowsAffected == 0 {
			return nil, common.NotFoundError{Resource: "Task", ID: string(id)}
		}
	}
	return r.GetTask(ctx, id)
}

func (r *gormRepository) DeleteTask(ctx context.Context, id common.TaskID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Task{})
	if result.Error != nil {
		return common.WrapRepositoryError(result.Error, "delete task")
	}
	if result.RowsAffected == 0 {
		return common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	return nil
}
