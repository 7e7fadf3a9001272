package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type huggingFaceStub struct {
	textStatus int
	textBody   string
	chatStatus int
	chatBody   string

	textCalls atomic.Int32
	chatCalls atomic.Int32
	lastAuth  atomic.Value
	lastBody  atomic.Value
}

func (s *huggingFaceStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.lastAuth.Store(r.Header.Get("Authorization"))
		s.lastBody.Store(string(body))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasPrefix(r.URL.Path, "/models/"):
			s.textCalls.Add(1)
			w.WriteHeader(s.textStatus)
			_, _ = w.Write([]byte(s.textBody))
		case r.URL.Path == "/v1/chat/completions":
			s.chatCalls.Add(1)
			w.WriteHeader(s.chatStatus)
			_, _ = w.Write([]byte(s.chatBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *huggingFaceStub) provider(t *testing.T) *HuggingFaceProvider {
	srv := s.server(t)
	return NewHuggingFaceProvider(srv.URL, srv.URL+"/v1", zaptest.NewLogger(t))
}

const chatCompletionBody = `{"id":"1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"from chat"},"finish_reason":"stop"}]}`

var testOpts = GenerateOptions{Temperature: 0.5, MaxTokens: 200}

func TestHuggingFace_TextGeneration(t *testing.T) {
	stub := &huggingFaceStub{textStatus: http.StatusOK, textBody: `[{"generated_text":"[{\"title\":\"a\"}]"}]`}
	p := stub.provider(t)

	out, err := p.Generate(context.Background(), "plan", "google/flan-t5-large", "hf_key", testOpts)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"a"}]`, out)
	assert.Equal(t, "Bearer hf_key", stub.lastAuth.Load())

	var sent HuggingFaceRequest
	require.NoError(t, json.Unmarshal([]byte(stub.lastBody.Load().(string)), &sent))
	assert.Equal(t, "plan", sent.Inputs)
	assert.Equal(t, 200, sent.Parameters.MaxNewTokens)
	assert.False(t, sent.Parameters.ReturnFullText)
	assert.True(t, sent.Options.WaitForModel)
	assert.Equal(t, int32(0), stub.chatCalls.Load())
}

func TestHuggingFace_ObjectPayload(t *testing.T) {
	stub := &huggingFaceStub{textStatus: http.StatusOK, textBody: `{"generated_text":"single"}`}

	out, err := stub.provider(t).Generate(context.Background(), "plan", "google/flan-t5-large", "hf_key", testOpts)
	require.NoError(t, err)
	assert.Equal(t, "single", out)
}

func TestHuggingFace_UndecodablePayload(t *testing.T) {
	stub := &huggingFaceStub{textStatus: http.StatusOK, textBody: `[]`}

	_, err := stub.provider(t).Generate(context.Background(), "plan", "google/flan-t5-large", "hf_key", testOpts)
	assert.Equal(t, KindMalformedOutput, KindOf(err))
}

func TestHuggingFace_FallsBackToChatForUnsupportedTask(t *testing.T) {
	stub := &huggingFaceStub{
		textStatus: http.StatusBadRequest,
		textBody:   `{"error":"Model google/gemma-7b is not supported for task text-generation"}`,
		chatStatus: http.StatusOK,
		chatBody:   chatCompletionBody,
	}

	out, err := stub.provider(t).Generate(context.Background(), "plan", "google/gemma-7b", "hf_key", testOpts)
	require.NoError(t, err)
	assert.Equal(t, "from chat", out)
	assert.Equal(t, int32(1), stub.textCalls.Load())
	assert.Equal(t, int32(1), stub.chatCalls.Load())
	assert.Contains(t, stub.lastBody.Load(), `"model":"google/gemma-7b"`)
}

func TestHuggingFace_FallbackIsBoundedToOneAttempt(t *testing.T) {
	stub := &huggingFaceStub{
		textStatus: http.StatusNotFound,
		textBody:   `{"error":"Model not found"}`,
		chatStatus: http.StatusNotFound,
		chatBody:   `{"error":"Model not found"}`,
	}

	_, err := stub.provider(t).Generate(context.Background(), "plan", "meta-llama/Meta-Llama-3-8B-Instruct", "hf_key", testOpts)
	require.Error(t, err)
	assert.Equal(t, KindModelUnavailable, KindOf(err))
	assert.Equal(t, int32(1), stub.textCalls.Load())
	assert.Equal(t, int32(1), stub.chatCalls.Load())
}

func TestHuggingFace_NoFallbackForCredentialErrors(t *testing.T) {
	stub := &huggingFaceStub{textStatus: http.StatusUnauthorized, textBody: `{"error":"Invalid credentials in Authorization header"}`}

	_, err := stub.provider(t).Generate(context.Background(), "plan", "microsoft/DialoGPT-medium", "hf_key", testOpts)
	assert.Equal(t, KindInvalidCredential, KindOf(err))
	assert.Equal(t, int32(0), stub.chatCalls.Load())
}

func TestHuggingFace_NoFallbackForNonConversationalModel(t *testing.T) {
	stub := &huggingFaceStub{textStatus: http.StatusServiceUnavailable, textBody: `{"error":"Model is currently loading"}`}

	_, err := stub.provider(t).Generate(context.Background(), "plan", "google/flan-t5-large", "hf_key", testOpts)
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, int32(0), stub.chatCalls.Load())
}

func TestHuggingFace_RateLimited(t *testing.T) {
	stub := &huggingFaceStub{textStatus: http.StatusTooManyRequests, textBody: `{"error":"Rate limit reached"}`}

	_, err := stub.provider(t).Generate(context.Background(), "plan", "google/flan-t5-large", "hf_key", testOpts)
	assert.Equal(t, KindRateLimited, KindOf(err))
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestHuggingFace_MissingKeyMakesNoRequest(t *testing.T) {
	stub := &huggingFaceStub{}

	_, err := stub.provider(t).Generate(context.Background(), "plan", "", "", testOpts)
	assert.Equal(t, KindMissingCredential, KindOf(err))
	assert.Equal(t, int32(0), stub.textCalls.Load())
}

func TestHuggingFace_TestCredential(t *testing.T) {
	valid := &huggingFaceStub{textStatus: http.StatusOK, textBody: `[{"generated_text":"I am fine"}]`}
	check := valid.provider(t).TestCredential(context.Background(), "hf_key", "")
	assert.True(t, check.Valid)
	assert.Equal(t, "API key is valid", check.Message)
	assert.Equal(t, "microsoft/DialoGPT-medium", check.Model)
	assert.Equal(t, VendorHuggingFace, check.Vendor)

	empty := &huggingFaceStub{textStatus: http.StatusOK, textBody: `[{"generated_text":"  "}]`}
	check = empty.provider(t).TestCredential(context.Background(), "hf_key", "google/flan-t5-large")
	assert.False(t, check.Valid)
	assert.Equal(t, "API key test failed: empty response", check.Message)

	invalid := &huggingFaceStub{textStatus: http.StatusUnauthorized, textBody: `{"error":"Invalid credentials"}`}
	check = invalid.provider(t).TestCredential(context.Background(), "hf_key", "google/flan-t5-large")
	assert.False(t, check.Valid)
	assert.Equal(t, "API credential is invalid or expired", check.Message)

	check = invalid.provider(t).TestCredential(context.Background(), " ", "")
	assert.Equal(t, "API key required", check.Message)
}
