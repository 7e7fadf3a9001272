package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"todoai-api/internal/catalog"
	"todoai-api/internal/common"
	"todoai-api/internal/tasklist"
	"todoai-api/internal/user"
)

// UserRepository is an in-memory user.Repository
type UserRepository struct {
	mu    sync.RWMutex
	users map[common.UserID]user.User
	Err   error
}

func NewUserRepository(users ...user.User) *UserRepository {
	r := &UserRepository{users: make(map[common.UserID]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = common.UserID(common.NewID())
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UserID) (*user.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "User", ID: string(id)}
	}
	return &u, nil
}

func (r *UserRepository) UpdateAIIntegration(ctx context.Context, id common.UserID, integration user.AIIntegration) (*user.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "User", ID: string(id)}
	}
	u.AIIntegrationType = integration.Vendor
	u.AIToken = integration.Token
	u.AIModel = integration.Model
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return &u, nil
}

// TaskListRepository is an in-memory tasklist.Repository
type TaskListRepository struct {
	mu      sync.RWMutex
	lists   map[common.TaskListID]tasklist.TaskList
	tasks   map[common.TaskID]tasklist.Task
	created int
	Err     error

	// TaskErr fails CreateTask once TaskErrAfter tasks are stored
	TaskErr      error
	TaskErrAfter int
}

func NewTaskListRepository() *TaskListRepository {
	return &TaskListRepository{
		lists: make(map[common.TaskListID]tasklist.TaskList),
		tasks: make(map[common.TaskID]tasklist.Task),
	}
}

func (r *TaskListRepository) CreateTaskList(ctx context.Context, in tasklist.NewTaskListInput) (*tasklist.TaskList, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, common.ValidationError{Field: "name", Message: "task list name is required"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.created++
	list := tasklist.TaskList{
		ID:           common.TaskListID(common.NewID()),
		UserID:       in.UserID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		SourcePrompt: in.SourcePrompt,
		Tasks:        []tasklist.Task{},
		CreatedAt:    time.Unix(int64(r.created), 0),
	}
	r.lists[list.ID] = list
	return &list, nil
}

func (r *TaskListRepository) CreateTask(ctx context.Context, in tasklist.NewTaskInput) (*tasklist.Task, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.ValidationError{Field: "title", Message: "task title is required"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lists[in.ListID]; !ok {
		return nil, common.NotFoundError{Resource: "TaskList", ID: string(in.ListID)}
	}
	if r.TaskErr != nil && len(r.tasks) >= r.TaskErrAfter {
		return nil, r.TaskErr
	}

	priority := in.Priority
	if !priority.IsValid() {
		priority = common.PriorityMedium
	}
	task := tasklist.Task{
		ID:          common.TaskID(common.NewID()),
		ListID:      in.ListID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Position:    in.Position,
		Priority:    priority,
		Category:    in.Category,
	}
	r.tasks[task.ID] = task
	return &task, nil
}

func (r *TaskListRepository) GetTaskList(ctx context.Context, id common.TaskListID) (*tasklist.TaskList, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.lists[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "TaskList", ID: string(id)}
	}
	hydrated := r.hydrate(list)
	return &hydrated, nil
}

// ListTaskListsWithTasks returns the user's lists newest first
func (r *TaskListRepository) ListTaskListsWithTasks(ctx context.Context, userID common.UserID) ([]tasklist.TaskList, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []tasklist.TaskList
	for _, list := range r.lists {
		if list.UserID == userID {
			out = append(out, r.hydrate(list))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *TaskListRepository) DeleteTaskList(ctx context.Context, id common.TaskListID) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lists[id]; !ok {
		return common.NotFoundError{Resource: "TaskList", ID: string(id)}
	}
	delete(r.lists, id)
	for taskID, task := range r.tasks {
		if task.ListID == id {
			delete(r.tasks, taskID)
		}
	}
	return nil
}

func (r *TaskListRepository) GetTask(ctx context.Context, id common.TaskID) (*tasklist.Task, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	return &task, nil
}

func (r *TaskListRepository) SetTaskCompleted(ctx context.Context, id common.TaskID, completed bool) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	task.IsCompleted = completed
	r.tasks[id] = task
	return nil
}

func (r *TaskListRepository) UpdateTaskList(ctx context.Context, id common.TaskListID, update tasklist.TaskListUpdate) (*tasklist.TaskList, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.lists[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "TaskList", ID: string(id)}
	}
	if err := update.Apply(&list); err != nil {
		return nil, err
	}
	r.lists[id] = list
	hydrated := r.hydrate(list)
	return &hydrated, nil
}

// ListTasks returns the user's tasks, newest list first and by position within a list
func (r *TaskListRepository) ListTasks(ctx context.Context, userID common.UserID, filter tasklist.TaskFilter) ([]tasklist.Task, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []tasklist.Task
	for _, task := range r.tasks {
		list, ok := r.lists[task.ListID]
		if !ok || list.UserID != userID {
			continue
		}
		if filter.Completed != nil && task.IsCompleted != *filter.Completed {
			continue
		}
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := r.lists[out[i].ListID], r.lists[out[j].ListID]
		if !li.CreatedAt.Equal(lj.CreatedAt) {
			return li.CreatedAt.After(lj.CreatedAt)
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *TaskListRepository) UpdateTask(ctx context.Context, id common.TaskID, update tasklist.TaskUpdate) (*tasklist.Task, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	if err := update.Apply(&task); err != nil {
		return nil, err
	}
	r.tasks[id] = task
	return &task, nil
}

func (r *TaskListRepository) DeleteTask(ctx context.Context, id common.TaskID) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return common.NotFoundError{Resource: "Task", ID: string(id)}
	}
	delete(r.tasks, id)
	return nil
}

// TaskCount returns the number of stored tasks across all lists
func (r *TaskListRepository) TaskCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// ListCount returns the number of stored lists
func (r *TaskListRepository) ListCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lists)
}

func (r *TaskListRepository) hydrate(list tasklist.TaskList) tasklist.TaskList {
	list.Tasks = []tasklist.Task{}
	for _, task := range r.tasks {
		if task.ListID == list.ID {
			list.Tasks = append(list.Tasks, task)
		}
	}
	sort.Slice(list.Tasks, func(i, j int) bool { return list.Tasks[i].Position < list.Tasks[j].Position })
	list.TotalTasks = len(list.Tasks)
	list.CompletedTasks = 0
	for _, task := range list.Tasks {
		if task.IsCompleted {
			list.CompletedTasks++
		}
	}
	return list
}

// ProviderRepository is an in-memory catalog.Repository
type ProviderRepository struct {
	mu        sync.RWMutex
	providers map[common.ProviderID]catalog.ProviderIdentity
	Err       error
}

func NewProviderRepository(providers ...catalog.ProviderIdentity) *ProviderRepository {
	r := &ProviderRepository{providers: make(map[common.ProviderID]catalog.ProviderIdentity)}
	for _, p := range providers {
		if p.ID == "" {
			p.ID = common.ProviderID(common.NewID())
		}
		r.providers[p.ID] = p
	}
	return r
}

func (r *ProviderRepository) Create(ctx context.Context, p *catalog.ProviderIdentity) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.providers {
		if existing.Name == p.Name {
			return common.ConflictError{Resource: "Provider", Key: p.Name}
		}
	}
	if p.ID == "" {
		p.ID = common.ProviderID(common.NewID())
	}
	r.providers[p.ID] = *p
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id common.ProviderID) (*catalog.ProviderIdentity, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, common.NotFoundError{Resource: "Provider", ID: string(id)}
	}
	return &p, nil
}

func (r *ProviderRepository) GetByName(ctx context.Context, name string) (*catalog.ProviderIdentity, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, common.NotFoundError{Resource: "Provider", ID: name}
}

func (r *ProviderRepository) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.ProviderIdentity, int64, error) {
	if r.Err != nil {
		return nil, 0, r.Err
	}
	filter = filter.Normalize()
	all := r.sorted(filter.ActiveOnly)
	total := int64(len(all))

	start := filter.Offset()
	if start >= len(all) {
		return []catalog.ProviderIdentity{}, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *ProviderRepository) ListActive(ctx context.Context) ([]catalog.ProviderIdentity, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(true), nil
}

func (r *ProviderRepository) Update(ctx context.Context, p *catalog.ProviderIdentity) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.ID]; !ok {
		return common.NotFoundError{Resource: "Provider", ID: string(p.ID)}
	}
	r.providers[p.ID] = *p
	return nil
}

func (r *ProviderRepository) Delete(ctx context.Context, id common.ProviderID) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[id]; !ok {
		return common.NotFoundError{Resource: "Provider", ID: string(id)}
	}
	delete(r.providers, id)
	return nil
}

func (r *ProviderRepository) sorted(activeOnly bool) []catalog.ProviderIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.ProviderIdentity, 0, len(r.providers))
	for _, p := range r.providers {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var (
	_ user.Repository     = (*UserRepository)(nil)
	_ tasklist.Repository = (*TaskListRepository)(nil)
	_ catalog.Repository  = (*ProviderRepository)(nil)
)
