package generation

import (
	"context"
	"errors"
	"strings"

	"todoai-api/internal/catalog"
	"todoai-api/internal/common"
	"todoai-api/internal/events"
	"todoai-api/internal/llm"
	"todoai-api/internal/tasklist"
	"todoai-api/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	fallbackTitlePrefix       = "Tasks: "
	fallbackTitleGoalRunes    = 40
	fallbackDescriptionPrefix = "Generated for: "
)

// CredentialStore returns the AI credential stored for a user
type CredentialStore interface {
	GetUserCredential(ctx context.Context, id common.UserID) (user.Credential, error)
}

// TaskListStore persists generated lists
type TaskListStore interface {
	CreateTaskList(ctx context.Context, in tasklist.NewTaskListInput) (*tasklist.TaskList, error)
	CreateTask(ctx context.Context, in tasklist.NewTaskInput) (*tasklist.Task, error)
	ListTaskListsWithTasks(ctx context.Context, userID common.UserID) ([]tasklist.TaskList, error)
	DeleteTaskList(ctx context.Context, id common.TaskListID) error
}

// ProviderDirectory looks up administrable provider records
type ProviderDirectory interface {
	GetByName(ctx context.Context, name string) (*catalog.ProviderIdentity, error)
}

// Generator is the part of llm.Orchestrator the workflow drives
type Generator interface {
	NormalizeConfig(cfg llm.GenerationConfig) llm.GenerationConfig
	GenerateTasks(ctx context.Context, goal string, cfg llm.GenerationConfig) ([]llm.TaskSuggestion, error)
	GenerateTitle(ctx context.Context, goal string, cfg llm.GenerationConfig) (string, error)
	GenerateDescription(ctx context.Context, goal string, cfg llm.GenerationConfig) (string, error)
	TestCredential(ctx context.Context, cfg llm.GenerationConfig) llm.CredentialCheck
}

// CatalogSource lists the vendors compiled into the binary
type CatalogSource interface {
	ListCatalog() []llm.Catalog
}

// Request carries the caller's goal and generation overrides
type Request struct {
	Goal        string   `json:"prompt" binding:"required"`
	ListName    string   `json:"listName,omitempty"`
	Description string   `json:"description,omitempty"`
	Vendor      string   `json:"aiProvider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// TasksResult is returned by GenerateTasks. TaskList is set only when the
// request named a list to store the tasks in.
type TasksResult struct {
	Tasks    []llm.TaskSuggestion `json:"tasks"`
	TaskList *tasklist.TaskList   `json:"taskList,omitempty"`
}

// Preview is a generated list that was not stored
type Preview struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Tasks       []llm.TaskSuggestion `json:"tasks"`
}

// Service runs the task generation use cases
type Service interface {
	GenerateTasks(ctx context.Context, userID common.UserID, req Request) (*TasksResult, error)
	GenerateTaskList(ctx context.Context, userID common.UserID, req Request) (*tasklist.TaskList, error)
	GenerateTaskListPreview(ctx context.Context, userID common.UserID, req Request) (*Preview, error)
	ListProviders(ctx context.Context) ([]llm.Catalog, error)
	TestUserCredential(ctx context.Context, userID common.UserID, vendor, model string) (llm.CredentialCheck, error)
	TestCredential(ctx context.Context, apiKey, vendor, model string) llm.CredentialCheck
}

type service struct {
	generator   Generator
	catalogs    CatalogSource
	credentials CredentialStore
	lists       TaskListStore
	directory   ProviderDirectory
	bus         events.EventBus
	logger      *zap.Logger
}

func NewService(
	generator Generator,
	catalogs CatalogSource,
	credentials CredentialStore,
	lists TaskListStore,
	directory ProviderDirectory,
	bus events.EventBus,
	logger *zap.Logger,
) Service {
	if bus == nil {
		bus = events.NoopBus{}
	}
	return &service{
		generator:   generator,
		catalogs:    catalogs,
		credentials: credentials,
		lists:       lists,
		directory:   directory,
		bus:         bus,
		logger:      logger,
	}
}

func (s *service) GenerateTasks(ctx context.Context, userID common.UserID, req Request) (*TasksResult, error) {
	cfg, err := s.buildConfig(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	tasks, err := s.generator.GenerateTasks(ctx, req.Goal, cfg)
	if err != nil {
		s.publishFailure(userID, cfg.Vendor, err)
		return nil, err
	}

	result := &TasksResult{Tasks: tasks}
	if name := strings.TrimSpace(req.ListName); name != "" {
		list, err := s.persist(ctx, userID, req.Goal, name, strings.TrimSpace(req.Description), tasks)
		if err != nil {
			return nil, err
		}
		result.TaskList = list
		s.publishGenerated(userID, list.ID, cfg, len(tasks), true)
	} else {
		s.publishGenerated(userID, "", cfg, len(tasks), false)
	}
	return result, nil
}

func (s *service) GenerateTaskList(ctx context.Context, userID common.UserID, req Request) (*tasklist.TaskList, error) {
	preview, cfg, err := s.generate(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	list, err := s.persist(ctx, userID, req.Goal, preview.Title, preview.Description, preview.Tasks)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Generated task list stored",
		zap.String("user_id", string(userID)),
		zap.String("task_list_id", string(list.ID)),
		zap.Int("task_count", len(list.Tasks)))
	s.publishGenerated(userID, list.ID, cfg, len(preview.Tasks), true)
	return list, nil
}

func (s *service) GenerateTaskListPreview(ctx context.Context, userID common.UserID, req Request) (*Preview, error) {
	preview, cfg, err := s.generate(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.publishGenerated(userID, "", cfg, len(preview.Tasks), false)
	return preview, nil
}

// ListProviders returns the built-in vendors, leaving out those whose stored
// record has been disabled
func (s *service) ListProviders(ctx context.Context) ([]llm.Catalog, error) {
	all := s.catalogs.ListCatalog()
	out := make([]llm.Catalog, 0, len(all))
	for _, c := range all {
		active, err := s.isActive(ctx, c.Vendor)
		if err != nil {
			return nil, err
		}
		if active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *service) TestUserCredential(ctx context.Context, userID common.UserID, vendor, model string) (llm.CredentialCheck, error) {
	cred, err := s.credentials.GetUserCredential(ctx, userID)
	if err != nil {
		return llm.CredentialCheck{}, err
	}
	vendor = firstNonEmpty(vendor, cred.Vendor, llm.VendorHuggingFace)
	if cred.APIKey == "" {
		return llm.CredentialCheck{}, llm.NewError(llm.KindNoCredentialConfigured, vendor, model, "no AI credential stored for user", nil)
	}

	check := s.generator.TestCredential(ctx, llm.GenerationConfig{
		Vendor: vendor,
		APIKey: cred.APIKey,
		Model:  firstNonEmpty(model, cred.Model),
	})
	s.publishCredentialTested(userID, check)
	return check, nil
}

func (s *service) TestCredential(ctx context.Context, apiKey, vendor, model string) llm.CredentialCheck {
	check := s.generator.TestCredential(ctx, llm.GenerationConfig{
		Vendor: firstNonEmpty(vendor, llm.VendorHuggingFace),
		APIKey: apiKey,
		Model:  model,
	})
	s.publishCredentialTested("", check)
	return check
}

// generate resolves title, description and tasks concurrently. Only a task
// generation failure is returned; title and description fall back locally.
func (s *service) generate(ctx context.Context, userID common.UserID, req Request) (*Preview, llm.GenerationConfig, error) {
	cfg, err := s.buildConfig(ctx, userID, req)
	if err != nil {
		return nil, cfg, err
	}

	preview := &Preview{
		Title:       strings.TrimSpace(req.ListName),
		Description: strings.TrimSpace(req.Description),
	}

	g, gctx := errgroup.WithContext(ctx)
	if preview.Title == "" {
		g.Go(func() error {
			title, err := s.generator.GenerateTitle(gctx, req.Goal, cfg)
			if err != nil {
				s.logger.Warn("Title generation failed, using fallback",
					zap.String("vendor", cfg.Vendor),
					zap.String("kind", string(llm.KindOf(err))))
				title = FallbackTitle(req.Goal)
			}
			preview.Title = title
			return nil
		})
	}
	if preview.Description == "" {
		g.Go(func() error {
			description, err := s.generator.GenerateDescription(gctx, req.Goal, cfg)
			if err != nil {
				s.logger.Warn("Description generation failed, using fallback",
					zap.String("vendor", cfg.Vendor),
					zap.String("kind", string(llm.KindOf(err))))
				description = FallbackDescription(req.Goal)
			}
			preview.Description = description
			return nil
		})
	}
	g.Go(func() error {
		tasks, err := s.generator.GenerateTasks(gctx, req.Goal, cfg)
		if err != nil {
			return err
		}
		preview.Tasks = tasks
		return nil
	})

	if err := g.Wait(); err != nil {
		s.publishFailure(userID, cfg.Vendor, err)
		return nil, cfg, err
	}
	return preview, cfg, nil
}

// buildConfig turns the stored credential and the request overrides into a
// normalized generation config
func (s *service) buildConfig(ctx context.Context, userID common.UserID, req Request) (llm.GenerationConfig, error) {
	cred, err := s.credentials.GetUserCredential(ctx, userID)
	if err != nil {
		return llm.GenerationConfig{}, err
	}

	vendor := strings.ToLower(firstNonEmpty(req.Vendor, cred.Vendor, llm.VendorHuggingFace))
	if cred.APIKey == "" {
		return llm.GenerationConfig{Vendor: vendor}, llm.NewError(llm.KindNoCredentialConfigured, vendor, "", "no AI credential stored for user", nil)
	}

	// The saved model preference wins over the request model
	model := firstNonEmpty(cred.Model, req.Model)
	if storedVendor := strings.ToLower(strings.TrimSpace(cred.Vendor)); storedVendor != "" && storedVendor != vendor {
		s.logger.Warn("Requested vendor differs from stored credential vendor",
			zap.String("user_id", string(userID)),
			zap.String("requested", vendor),
			zap.String("stored", storedVendor),
			zap.String("model", model))
	}

	active, err := s.isActive(ctx, vendor)
	if err != nil {
		return llm.GenerationConfig{Vendor: vendor}, err
	}
	if !active {
		return llm.GenerationConfig{Vendor: vendor}, llm.NewError(llm.KindUnsupportedVendor, vendor, model, "provider disabled", nil)
	}

	return s.generator.NormalizeConfig(llm.GenerationConfig{
		Vendor:          vendor,
		APIKey:          cred.APIKey,
		Model:           model,
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}), nil
}

// isActive reports false only for a stored record that has been disabled
func (s *service) isActive(ctx context.Context, vendor string) (bool, error) {
	if s.directory == nil {
		return true, nil
	}
	record, err := s.directory.GetByName(ctx, vendor)
	if err != nil {
		var notFound common.NotFoundError
		if errors.As(err, &notFound) {
			return true, nil
		}
		return false, err
	}
	return record.IsActive, nil
}

// persist stores the list and its tasks in order and returns it with tasks.
// A failed task insert removes the list again.
func (s *service) persist(ctx context.Context, userID common.UserID, goal, title, description string, tasks []llm.TaskSuggestion) (*tasklist.TaskList, error) {
	list, err := s.lists.CreateTaskList(ctx, tasklist.NewTaskListInput{
		UserID:       userID,
		Name:         title,
		Description:  description,
		SourcePrompt: goal,
	})
	if err != nil {
		return nil, err
	}

	created := make([]tasklist.Task, 0, len(tasks))
	for i, t := range tasks {
		task, err := s.lists.CreateTask(ctx, tasklist.NewTaskInput{
			ListID:      list.ID,
			Title:       t.Title,
			Description: t.Description,
			Position:    i,
			Priority:    t.Priority,
			Category:    t.Category,
		})
		if err != nil {
			s.discard(ctx, list.ID)
			return nil, err
		}
		created = append(created, *task)
	}

	lists, err := s.lists.ListTaskListsWithTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].ID == list.ID {
			return &lists[i], nil
		}
	}

	list.Tasks = created
	list.TotalTasks = len(created)
	return list, nil
}

// discard removes a list whose tasks could not all be stored
func (s *service) discard(ctx context.Context, id common.TaskListID) {
	if err := s.lists.DeleteTaskList(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Error("Failed to remove partially stored task list",
			zap.String("task_list_id", string(id)),
			zap.Error(err))
	}
}

func (s *service) publishGenerated(userID common.UserID, listID common.TaskListID, cfg llm.GenerationConfig, count int, persisted bool) {
	s.publish(events.TopicTaskListGenerated, events.TaskListGenerated{
		Event:      events.NewEvent(),
		UserID:     string(userID),
		TaskListID: string(listID),
		Vendor:     cfg.Vendor,
		Model:      cfg.Model,
		TaskCount:  count,
		Persisted:  persisted,
	})
}

func (s *service) publishFailure(userID common.UserID, vendor string, err error) {
	s.publish(events.TopicGenerationFailed, events.GenerationFailed{
		Event:  events.NewEvent(),
		UserID: string(userID),
		Vendor: vendor,
		Kind:   string(llm.KindOf(err)),
	})
}

func (s *service) publishCredentialTested(userID common.UserID, check llm.CredentialCheck) {
	s.publish(events.TopicCredentialTested, events.CredentialTested{
		Event:  events.NewEvent(),
		UserID: string(userID),
		Vendor: check.Vendor,
		Valid:  check.Valid,
	})
}

func (s *service) publish(topic string, event interface{}) {
	if err := s.bus.Publish(topic, event); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("topic", topic), zap.Error(err))
	}
}

// FallbackTitle is used when title generation fails
func FallbackTitle(goal string) string {
	goal = strings.TrimSpace(goal)
	runes := []rune(goal)
	if len(runes) > fallbackTitleGoalRunes {
		runes = runes[:fallbackTitleGoalRunes]
	}
	return fallbackTitlePrefix + string(runes)
}

// FallbackDescription is used when description generation fails
func FallbackDescription(goal string) string {
	return fallbackDescriptionPrefix + strings.TrimSpace(goal)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
