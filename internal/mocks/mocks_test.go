package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"todoai-api/internal/catalog"
	"todoai-api/internal/common"
	"todoai-api/internal/llm"
	"todoai-api/internal/tasklist"
	"todoai-api/internal/user"
)

func TestMockProvider_ImplementsProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockProvider(ctrl)

	var p llm.Provider = mock
	mock.EXPECT().Name().Return("huggingface")
	mock.EXPECT().Generate(gomock.Any(), "hi", "m", "k", gomock.Any()).Return("hello", nil)

	assert.Equal(t, "huggingface", p.Name())
	out, err := p.Generate(context.Background(), "hi", "m", "k", llm.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &user.User{Name: "sam"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	updated, err := repo.UpdateAIIntegration(ctx, u.ID, user.AIIntegration{Vendor: "gemini", Token: "key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", updated.AIIntegrationType)

	_, err = repo.GetByID(ctx, "missing")
	assert.IsType(t, common.NotFoundError{}, err)
}

func TestTaskListRepository_OrdersTasksByPosition(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskListRepository()

	list, err := repo.CreateTaskList(ctx, tasklist.NewTaskListInput{UserID: "u1", Name: "Trip"})
	require.NoError(t, err)
	for _, pos := range []int{2, 0, 1} {
		_, err := repo.CreateTask(ctx, tasklist.NewTaskInput{ListID: list.ID, Title: "t", Position: pos})
		require.NoError(t, err)
	}

	got, err := repo.GetTaskList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 3)
	for i, task := range got.Tasks {
		assert.Equal(t, i, task.Position)
		assert.Equal(t, common.PriorityMedium, task.Priority)
	}
	assert.Equal(t, 3, got.TotalTasks)

	require.NoError(t, repo.DeleteTaskList(ctx, list.ID))
	assert.Equal(t, 0, repo.TaskCount())
}

func TestProviderRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewProviderRepository(
		catalog.ProviderIdentity{Name: "openrouter", IsActive: true},
		catalog.ProviderIdentity{Name: "gemini", IsActive: false},
		catalog.ProviderIdentity{Name: "huggingface", IsActive: true},
	)

	items, total, err := repo.List(ctx, catalog.ListFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "gemini", items[0].Name)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "huggingface", active[0].Name)

	err = repo.Create(ctx, &catalog.ProviderIdentity{Name: "gemini"})
	assert.IsType(t, common.ConflictError{}, err)
}
