package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var geminiModels = []string{
	"gemini-pro",
	"gemini-pro-vision",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

// GeminiProvider calls Google Gemini through the genai SDK. A client is built
// per call because the API key belongs to the calling user.
type GeminiProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiProvider creates a provider. An empty baseURL keeps the SDK default.
func NewGeminiProvider(baseURL string, logger *zap.Logger) *GeminiProvider {
	return &GeminiProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (p *GeminiProvider) Name() string {
	return VendorGemini
}

func (p *GeminiProvider) DescribeCatalog() Catalog {
	return Catalog{
		Vendor:       VendorGemini,
		Description:  "Google Gemini models, requires a Google AI Studio key",
		Free:         false,
		Models:       append([]string(nil), geminiModels...),
		DefaultModel: defaultModels[VendorGemini],
	}
}

func (p *GeminiProvider) SupportsModel(model string) bool {
	return containsModel(geminiModels, model) || (strings.HasPrefix(model, "gemini-") && len(model) > len("gemini-"))
}

func (p *GeminiProvider) TestCredential(ctx context.Context, apiKey, model string) CredentialCheck {
	return testCredential(ctx, p, apiKey, model)
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt, model, apiKey string, opts GenerateOptions) (string, error) {
	if apiKey == "" {
		return "", NewError(KindMissingCredential, VendorGemini, model, "API key is required for Gemini", nil)
	}
	if model == "" {
		model = defaultModels[VendorGemini]
	}
	ctx, cancel := callContext(ctx, opts)
	defer cancel()

	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", NewError(KindUnknown, VendorGemini, model, "failed to create Gemini client", err)
	}

	p.logger.Debug("Gemini generate content",
		zap.String("model", model),
		zap.String("api_key", maskKey(apiKey)))

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", p.classify(ctx, model, err)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return "", NewError(KindMalformedOutput, VendorGemini, model, "prompt blocked: "+string(result.PromptFeedback.BlockReason), nil)
	}
	if len(result.Candidates) == 0 {
		return "", NewError(KindMalformedOutput, VendorGemini, model, "response contained no candidates", nil)
	}
	switch reason := result.Candidates[0].FinishReason; reason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist, genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
		return "", NewError(KindMalformedOutput, VendorGemini, model, "content blocked: "+string(reason), nil)
	}

	return result.Text(), nil
}

func (p *GeminiProvider) classify(ctx context.Context, model string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return NewError(classifyFailure(apiErr.Code, apiErr.Message), VendorGemini, model, apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return NewError(classifyFailure(apiErrPtr.Code, apiErrPtr.Message), VendorGemini, model, apiErrPtr.Message, err)
	}
	return transportError(ctx, VendorGemini, model, err)
}

var _ Provider = (*GeminiProvider)(nil)
