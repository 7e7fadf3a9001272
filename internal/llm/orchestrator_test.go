package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"todoai-api/internal/common"
	"todoai-api/internal/llm"
	"todoai-api/internal/mocks"
)

func newOrchestrator(t *testing.T, opts ...llm.OrchestratorOption) (*llm.Orchestrator, *mocks.MockProvider, *common.MockClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Name().Return(llm.VendorOpenRouter).AnyTimes()

	clock := common.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	base := []llm.OrchestratorOption{
		llm.WithClock(clock),
		llm.WithRetryPolicy(llm.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}),
	}
	o := llm.NewOrchestrator(llm.NewRegistry(provider), zaptest.NewLogger(t), append(base, opts...)...)
	return o, provider, clock
}

func config() llm.GenerationConfig {
	return llm.GenerationConfig{Vendor: llm.VendorOpenRouter, APIKey: "sk-or-test"}
}

func TestGenerateText_RetriesRetryableKindUpToMaxAttempts(t *testing.T) {
	o, provider, clock := newOrchestrator(t)
	provider.EXPECT().
		Generate(gomock.Any(), "hello", "openai/gpt-3.5-turbo", "sk-or-test", gomock.Any()).
		Return("", llm.NewError(llm.KindRateLimited, llm.VendorOpenRouter, "", "429", nil)).
		Times(3)

	_, err := o.GenerateText(context.Background(), "hello", config())
	require.Error(t, err)
	assert.Equal(t, llm.KindRateLimited, llm.KindOf(err))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clock.Waits())
}

func TestGenerateText_NonRetryableKindCallsOnce(t *testing.T) {
	o, provider, clock := newOrchestrator(t)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", llm.NewError(llm.KindInvalidCredential, llm.VendorOpenRouter, "", "401", nil)).
		Times(1)

	_, err := o.GenerateText(context.Background(), "hello", config())
	assert.Equal(t, llm.KindInvalidCredential, llm.KindOf(err))
	assert.Empty(t, clock.Waits())
}

func TestGenerateText_RecoversAfterTransientFailure(t *testing.T) {
	o, provider, _ := newOrchestrator(t)
	first := provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", llm.NewError(llm.KindQuotaExceeded, llm.VendorOpenRouter, "", "quota", nil))
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("done", nil).
		After(first)

	out, err := o.GenerateText(context.Background(), "hello", config())
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestGenerateText_ForeignErrorsAreUnknownAndRetried(t *testing.T) {
	o, provider, _ := newOrchestrator(t)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("connection reset")).
		Times(3)

	_, err := o.GenerateText(context.Background(), "hello", config())
	e := llm.AsError(err)
	assert.Equal(t, llm.KindUnknown, e.Kind)
	assert.Equal(t, llm.VendorOpenRouter, e.Vendor)
}

func TestGenerateText_ValidationHappensBeforeAnyCall(t *testing.T) {
	o, _, _ := newOrchestrator(t)

	_, err := o.GenerateText(context.Background(), "hello", llm.GenerationConfig{Vendor: llm.VendorOpenRouter})
	assert.Equal(t, llm.KindMissingCredential, llm.KindOf(err))

	_, err = o.GenerateText(context.Background(), "hello", llm.GenerationConfig{Vendor: "acme", APIKey: "k"})
	assert.Equal(t, llm.KindUnsupportedVendor, llm.KindOf(err))
}

func TestGenerateText_ForwardsResolvedOptions(t *testing.T) {
	o, provider, _ := newOrchestrator(t, llm.WithRequestTimeout(5*time.Second))
	provider.EXPECT().
		Generate(gomock.Any(), "hello", "anthropic/claude-3-haiku", "sk-or-test", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string, opts llm.GenerateOptions) (string, error) {
			assert.Equal(t, 0.3, opts.Temperature)
			assert.Equal(t, 4000, opts.MaxTokens)
			assert.Equal(t, 5*time.Second, opts.Timeout)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return "ok", nil
		})

	cfg := config()
	cfg.Model = "anthropic/claude-3-haiku"
	cfg.Temperature = llm.Float64(0.3)
	cfg.MaxOutputTokens = llm.Int(9000)
	_, err := o.GenerateText(context.Background(), "hello", cfg)
	require.NoError(t, err)
}

func TestGenerateText_AttemptDeadlineIsTimeout(t *testing.T) {
	o, provider, _ := newOrchestrator(t, llm.WithRequestTimeout(10*time.Millisecond))
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string, _ llm.GenerateOptions) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}).
		Times(3)

	_, err := o.GenerateText(context.Background(), "hello", config())
	assert.Equal(t, llm.KindTimeout, llm.KindOf(err))
}

func TestGenerateText_CanceledContextStopsRetrying(t *testing.T) {
	o, provider, clock := newOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, string, llm.GenerateOptions) (string, error) {
			cancel()
			return "", llm.NewError(llm.KindRateLimited, llm.VendorOpenRouter, "", "429", nil)
		}).
		Times(1)

	_, err := o.GenerateText(ctx, "hello", config())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "request canceled", llm.AsError(err).Msg)
	assert.Empty(t, clock.Waits())
}

func TestGenerateTasks_ParsesResponse(t *testing.T) {
	o, provider, _ := newOrchestrator(t)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("Here you go:\n[{\"title\":\"Book flight\",\"priority\":\"high\"}]", nil)

	tasks, err := o.GenerateTasks(context.Background(), "Plan a trip", config())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, common.PriorityHigh, tasks[0].Priority)
}

func TestGenerateTitle_EmptyIsMalformed(t *testing.T) {
	o, provider, _ := newOrchestrator(t)
	provider.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("  \n ", nil).
		Times(2)

	_, err := o.GenerateTitle(context.Background(), "Plan a trip", config())
	assert.Equal(t, llm.KindMalformedOutput, llm.KindOf(err))

	_, err = o.GenerateDescription(context.Background(), "Plan a trip", config())
	assert.Equal(t, llm.KindMalformedOutput, llm.KindOf(err))
}

func TestTestCredential_DelegatesToProvider(t *testing.T) {
	o, provider, _ := newOrchestrator(t)
	provider.EXPECT().
		TestCredential(gomock.Any(), "sk-or-test", "openai/gpt-4").
		Return(llm.CredentialCheck{Valid: true, Message: "API key is valid", Vendor: llm.VendorOpenRouter})

	check := o.TestCredential(context.Background(), llm.GenerationConfig{
		Vendor: llm.VendorOpenRouter,
		APIKey: " sk-or-test ",
		Model:  "openai/gpt-4",
	})
	assert.True(t, check.Valid)

	check = o.TestCredential(context.Background(), llm.GenerationConfig{Vendor: "acme", APIKey: "k"})
	assert.False(t, check.Valid)
	assert.Contains(t, check.Message, "unsupported AI provider")
}
