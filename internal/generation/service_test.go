package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"todoai-api/internal/catalog"
	"todoai-api/internal/common"
	"todoai-api/internal/events"
	"todoai-api/internal/generation"
	"todoai-api/internal/llm"
	"todoai-api/internal/mocks"
	"todoai-api/internal/user"
)

const tasksJSON = `[{"title":"Book flight","priority":"high"},{"title":"Pack bags"}]`

type harness struct {
	provider  *mocks.MockProvider
	lists     *mocks.TaskListRepository
	providers *mocks.ProviderRepository
	bus       *events.MockEventBus
	svc       generation.Service
}

func newHarness(t *testing.T, users ...user.User) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := zaptest.NewLogger(t)

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return(llm.VendorHuggingFace).AnyTimes()
	provider.EXPECT().DescribeCatalog().Return(llm.Catalog{
		Vendor: llm.VendorHuggingFace,
		Free:   true,
		Models: []string{"microsoft/DialoGPT-medium"},
	}).AnyTimes()

	registry := llm.NewRegistry(provider)
	orchestrator := llm.NewOrchestrator(registry, logger,
		llm.WithClock(common.NewMockClock(time.Unix(0, 0))),
		llm.WithRetryPolicy(llm.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}))

	h := &harness{
		provider:  provider,
		lists:     mocks.NewTaskListRepository(),
		providers: mocks.NewProviderRepository(),
		bus:       events.NewMockEventBus(),
	}
	h.svc = generation.NewService(
		orchestrator,
		registry,
		user.NewService(mocks.NewUserRepository(users...), registry, logger),
		h.lists,
		catalog.NewService(h.providers, logger),
		h.bus,
		logger,
	)
	return h
}

func configuredUser(id string) user.User {
	return user.User{
		ID:                common.UserID(id),
		AIIntegrationType: llm.VendorHuggingFace,
		AIToken:           "hf_secret",
	}
}

// respondByPrompt answers title, description and task prompts differently
func respondByPrompt(title, description string) func(context.Context, string, string, string, llm.GenerateOptions) (string, error) {
	return func(_ context.Context, prompt, _, _ string, _ llm.GenerateOptions) (string, error) {
		switch {
		case strings.Contains(prompt, "short title"):
			if title == "" {
				return "", llm.NewError(llm.KindInvalidCredential, llm.VendorHuggingFace, "", "bad key", nil)
			}
			return title, nil
		case strings.Contains(prompt, "description for a to-do list"):
			if description == "" {
				return "", llm.NewError(llm.KindInvalidCredential, llm.VendorHuggingFace, "", "bad key", nil)
			}
			return description, nil
		default:
			return tasksJSON, nil
		}
	}
}

func TestPreview_RetriesRateLimitThenSucceeds(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))

	first := h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), "hf_secret", gomock.Any()).
		Return("", llm.NewError(llm.KindRateLimited, llm.VendorHuggingFace, "", "slow down", nil)).
		Times(1)
	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), "hf_secret", gomock.Any()).
		Return(tasksJSON, nil).
		Times(1).
		After(first)

	preview, err := h.svc.GenerateTaskListPreview(context.Background(), "u1", generation.Request{
		Goal:        "Plan a trip",
		ListName:    "Trip",
		Description: "Getting ready",
	})
	require.NoError(t, err)
	assert.Equal(t, "Trip", preview.Title)
	assert.Equal(t, "Getting ready", preview.Description)
	require.Len(t, preview.Tasks, 2)
	assert.Equal(t, common.PriorityHigh, preview.Tasks[0].Priority)
	assert.Equal(t, 0, h.lists.TaskCount(), "preview must not persist")
	events.AssertEventCount(t, h.bus, events.TopicTaskListGenerated, 1)
}

func TestPreview_NoStoredCredential(t *testing.T) {
	h := newHarness(t, user.User{ID: "u1"})

	_, err := h.svc.GenerateTaskListPreview(context.Background(), "u1", generation.Request{Goal: "Plan a trip"})
	require.Error(t, err)
	assert.Equal(t, llm.KindNoCredentialConfigured, llm.KindOf(err))
}

func TestPreview_UnknownUser(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GenerateTaskListPreview(context.Background(), "ghost", generation.Request{Goal: "Plan a trip"})
	assert.IsType(t, common.NotFoundError{}, err)
}

func TestGenerateTaskList_PersistsInOrder(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))
	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respondByPrompt("Weekend Trip", "Everything needed for the weekend.")).
		Times(3)

	list, err := h.svc.GenerateTaskList(context.Background(), "u1", generation.Request{Goal: "Plan a trip"})
	require.NoError(t, err)

	assert.Equal(t, "Weekend Trip", list.Name)
	assert.Equal(t, "Everything needed for the weekend.", list.Description)
	assert.Equal(t, "Plan a trip", list.SourcePrompt)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "Book flight", list.Tasks[0].Title)
	assert.Equal(t, 0, list.Tasks[0].Position)
	assert.Equal(t, "Pack bags", list.Tasks[1].Title)
	assert.Equal(t, 1, list.Tasks[1].Position)
	assert.Equal(t, 2, list.TotalTasks)

	published := h.bus.GetPublishedEvents(events.TopicTaskListGenerated)
	require.Len(t, published, 1)
	event := published[0].(events.TaskListGenerated)
	assert.True(t, event.Persisted)
	assert.Equal(t, string(list.ID), event.TaskListID)
}

func TestGenerateTaskList_TitleAndDescriptionFallBack(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))
	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(respondByPrompt("", "")).
		Times(3)

	goal := "Organize a community garden cleanup with volunteers and tools"
	list, err := h.svc.GenerateTaskList(context.Background(), "u1", generation.Request{Goal: goal})
	require.NoError(t, err)

	assert.Equal(t, "Tasks: "+goal[:40], list.Name)
	assert.Equal(t, "Generated for: "+goal, list.Description)
	assert.Len(t, list.Tasks, 2)
}

func TestGenerateTaskList_TaskFailureSurfaces(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))
	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", llm.NewError(llm.KindInvalidCredential, llm.VendorHuggingFace, "", "unauthorized", nil)).
		Times(1)

	_, err := h.svc.GenerateTaskList(context.Background(), "u1", generation.Request{
		Goal:        "Plan a trip",
		ListName:    "Trip",
		Description: "d",
	})
	require.Error(t, err)
	assert.Equal(t, llm.KindInvalidCredential, llm.KindOf(err))
	assert.Equal(t, 0, h.lists.TaskCount())

	failures := h.bus.GetPublishedEvents(events.TopicGenerationFailed)
	require.Len(t, failures, 1)
	assert.Equal(t, string(llm.KindInvalidCredential), failures[0].(events.GenerationFailed).Kind)
}

func TestGenerateTaskList_TaskInsertFailureRemovesList(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))
	h.lists.TaskErr = errors.New("connection reset")
	h.lists.TaskErrAfter = 1
	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(tasksJSON, nil).
		Times(1)

	_, err := h.svc.GenerateTaskList(context.Background(), "u1", generation.Request{
		Goal:        "Plan a trip",
		ListName:    "Trip",
		Description: "d",
	})
	require.Error(t, err)
	assert.Equal(t, 0, h.lists.ListCount())
	assert.Equal(t, 0, h.lists.TaskCount())

	lists, err := h.lists.ListTaskListsWithTasks(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestGenerateTasks_StoredModelWins(t *testing.T) {
	u := configuredUser("u1")
	u.AIModel = "mistralai/Mistral-7B-Instruct-v0.2"
	h := newHarness(t, u)

	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), "mistralai/Mistral-7B-Instruct-v0.2", "hf_secret", gomock.Any()).
		Return(tasksJSON, nil)

	result, err := h.svc.GenerateTasks(context.Background(), "u1", generation.Request{
		Goal:  "Plan a trip",
		Model: "gpt2",
	})
	require.NoError(t, err)
	assert.Len(t, result.Tasks, 2)
	assert.Nil(t, result.TaskList)
}

func TestGenerateTasks_StoredModelWinsAcrossVendors(t *testing.T) {
	u := configuredUser("u1")
	u.AIIntegrationType = llm.VendorOpenRouter
	u.AIModel = "mistralai/Mistral-7B-Instruct-v0.2"
	h := newHarness(t, u)

	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), "mistralai/Mistral-7B-Instruct-v0.2", "hf_secret", gomock.Any()).
		Return(tasksJSON, nil)

	result, err := h.svc.GenerateTasks(context.Background(), "u1", generation.Request{
		Goal:   "Plan a trip",
		Vendor: llm.VendorHuggingFace,
	})
	require.NoError(t, err)
	assert.Len(t, result.Tasks, 2)
}

func TestGenerateTasks_RequestModelWithoutStoredModel(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))

	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), "gpt2", "hf_secret", gomock.Any()).
		Return(tasksJSON, nil)

	_, err := h.svc.GenerateTasks(context.Background(), "u1", generation.Request{
		Goal:  "Plan a trip",
		Model: "gpt2",
	})
	require.NoError(t, err)
}

func TestGenerateTasks_PersistsWhenListNamed(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))
	h.provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(tasksJSON, nil).
		Times(1)

	result, err := h.svc.GenerateTasks(context.Background(), "u1", generation.Request{
		Goal:     "Plan a trip",
		ListName: "Trip",
	})
	require.NoError(t, err)
	require.NotNil(t, result.TaskList)
	assert.Equal(t, "Trip", result.TaskList.Name)
	assert.Equal(t, 2, h.lists.TaskCount())
}

func TestGenerateTasks_DisabledProvider(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))
	require.NoError(t, h.providers.Create(context.Background(), &catalog.ProviderIdentity{
		Name:     llm.VendorHuggingFace,
		IsActive: false,
	}))

	_, err := h.svc.GenerateTasks(context.Background(), "u1", generation.Request{Goal: "Plan a trip"})
	require.Error(t, err)
	assert.Equal(t, llm.KindUnsupportedVendor, llm.KindOf(err))
}

func TestGenerateTasks_UnsupportedRequestedVendor(t *testing.T) {
	h := newHarness(t, configuredUser("u1"))

	_, err := h.svc.GenerateTasks(context.Background(), "u1", generation.Request{
		Goal:   "Plan a trip",
		Vendor: "acme",
	})
	require.Error(t, err)
	assert.Equal(t, llm.KindUnsupportedVendor, llm.KindOf(err))
}

func TestListProviders_SkipsDisabled(t *testing.T) {
	h := newHarness(t)

	providers, err := h.svc.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, llm.VendorHuggingFace, providers[0].Vendor)

	require.NoError(t, h.providers.Create(context.Background(), &catalog.ProviderIdentity{
		Name:     llm.VendorHuggingFace,
		IsActive: false,
	}))
	providers, err = h.svc.ListProviders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestTestUserCredential(t *testing.T) {
	h := newHarness(t, configuredUser("u1"), user.User{ID: "u2"})
	h.provider.EXPECT().
		TestCredential(gomock.Any(), "hf_secret", gomock.Any()).
		Return(llm.CredentialCheck{Valid: true, Message: "API key is valid", Vendor: llm.VendorHuggingFace})

	check, err := h.svc.TestUserCredential(context.Background(), "u1", "", "")
	require.NoError(t, err)
	assert.True(t, check.Valid)
	events.AssertEventCount(t, h.bus, events.TopicCredentialTested, 1)

	_, err = h.svc.TestUserCredential(context.Background(), "u2", "", "")
	assert.Equal(t, llm.KindNoCredentialConfigured, llm.KindOf(err))
}

func TestTestCredential_UnsupportedVendor(t *testing.T) {
	h := newHarness(t)

	check := h.svc.TestCredential(context.Background(), "key", "acme", "")
	assert.False(t, check.Valid)
	assert.Contains(t, check.Message, "unsupported AI provider 'acme'")
}

func TestFallbacks(t *testing.T) {
	assert.Equal(t, "Tasks: short goal", generation.FallbackTitle("short goal"))
	assert.Equal(t, "Tasks: "+strings.Repeat("é", 40), generation.FallbackTitle(strings.Repeat("é", 50)))
	assert.Equal(t, "Generated for: goal", generation.FallbackDescription("goal"))
}
