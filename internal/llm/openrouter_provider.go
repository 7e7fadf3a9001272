package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

var openRouterModels = []string{
	"openai/gpt-3.5-turbo",
	"openai/gpt-4",
	"openai/gpt-4-turbo",
	"anthropic/claude-3-haiku",
	"anthropic/claude-3-sonnet",
	"anthropic/claude-3-opus",
	"google/gemini-pro",
	"meta-llama/llama-2-70b-chat",
	"mistralai/mistral-7b-instruct",
}

var openRouterFamilies = []string{"openai/", "anthropic/", "google/", "meta-llama/", "mistralai/"}

// OpenRouterProvider uses the OpenAI-compatible OpenRouter chat API
type OpenRouterProvider struct {
	baseURL    string
	referer    string
	title      string
	httpClient *http.Client
	logger     *zap.Logger
}

// OpenRouterOptions configures the endpoint and attribution headers
type OpenRouterOptions struct {
	BaseURL string
	Referer string
	Title   string
}

func NewOpenRouterProvider(opts OpenRouterOptions, logger *zap.Logger) *OpenRouterProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOpenRouterBaseURL
	}
	p := &OpenRouterProvider{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		referer: opts.Referer,
		title:   opts.Title,
		logger:  logger,
	}
	p.httpClient = &http.Client{Transport: &headerTransport{
		base:    http.DefaultTransport,
		headers: map[string]string{"HTTP-Referer": p.referer, "X-Title": p.title},
	}}
	return p
}

func (p *OpenRouterProvider) Name() string {
	return VendorOpenRouter
}

func (p *OpenRouterProvider) DescribeCatalog() Catalog {
	return Catalog{
		Vendor:       VendorOpenRouter,
		Description:  "OpenRouter gateway to commercial models, paid per token",
		Free:         false,
		Models:       append([]string(nil), openRouterModels...),
		DefaultModel: defaultModels[VendorOpenRouter],
	}
}

func (p *OpenRouterProvider) SupportsModel(model string) bool {
	if containsModel(openRouterModels, model) {
		return true
	}
	for _, prefix := range openRouterFamilies {
		if strings.HasPrefix(model, prefix) && len(model) > len(prefix) {
			return true
		}
	}
	return false
}

func (p *OpenRouterProvider) TestCredential(ctx context.Context, apiKey, model string) CredentialCheck {
	return testCredential(ctx, p, apiKey, model)
}

func (p *OpenRouterProvider) Generate(ctx context.Context, prompt, model, apiKey string, opts GenerateOptions) (string, error) {
	if apiKey == "" {
		return "", NewError(KindMissingCredential, VendorOpenRouter, model, "API key is required for OpenRouter", nil)
	}
	if model == "" {
		model = defaultModels[VendorOpenRouter]
	}
	ctx, cancel := callContext(ctx, opts)
	defer cancel()

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = p.baseURL
	cfg.HTTPClient = p.httpClient
	client := openai.NewClientWithConfig(cfg)

	p.logger.Debug("OpenRouter chat completion",
		zap.String("model", model),
		zap.String("api_key", maskKey(apiKey)))

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", p.classify(ctx, model, err)
	}
	if len(resp.Choices) == 0 {
		return "", NewError(KindMalformedOutput, VendorOpenRouter, model, "response contained no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenRouterProvider) classify(ctx context.Context, model string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewError(classifyFailure(apiErr.HTTPStatusCode, apiErr.Message), VendorOpenRouter, model, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewError(classifyFailure(reqErr.HTTPStatusCode, reqErr.Error()), VendorOpenRouter, model, reqErr.Error(), err)
	}
	return transportError(ctx, VendorOpenRouter, model, err)
}

// headerTransport adds fixed headers to every outgoing request
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

var _ Provider = (*OpenRouterProvider)(nil)
