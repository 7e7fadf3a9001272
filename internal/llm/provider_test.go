package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

// slowServer answers only once the client gives up or the test ends
func slowServer(t *testing.T) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv
}

func TestProviders_HonourCallTimeout(t *testing.T) {
	srv := slowServer(t)
	logger := zaptest.NewLogger(t)
	opts := GenerateOptions{Temperature: 0.5, MaxTokens: 50, Timeout: 50 * time.Millisecond}

	tests := []struct {
		name     string
		provider Provider
		model    string
	}{
		{"huggingface", NewHuggingFaceProvider(srv.URL, srv.URL+"/v1", logger), "google/flan-t5-large"},
		{"openrouter", NewOpenRouterProvider(OpenRouterOptions{BaseURL: srv.URL}, logger), "openai/gpt-4"},
		{"gemini", NewGeminiProvider(srv.URL, logger), "gemini-1.5-flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := tt.provider.Generate(context.Background(), "plan", tt.model, "key", opts)
			assert.Equal(t, KindTimeout, KindOf(err))
			assert.Less(t, time.Since(start), 5*time.Second)
		})
	}
}

func TestCallContext(t *testing.T) {
	ctx, cancel := callContext(context.Background(), GenerateOptions{})
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	ctx, cancel = callContext(context.Background(), GenerateOptions{Timeout: time.Minute})
	defer cancel()
	deadline, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
