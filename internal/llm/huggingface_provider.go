package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	defaultHuggingFaceBaseURL     = "https://api-inference.huggingface.co"
	defaultHuggingFaceChatBaseURL = "https://router.huggingface.co/v1"
)

var huggingFaceModels = []string{
	"microsoft/DialoGPT-medium",
	"microsoft/DialoGPT-large",
	"facebook/blenderbot-400M-distill",
	"mistralai/Mistral-7B-Instruct-v0.2",
	"google/flan-t5-large",
	"microsoft/DialoGPT-small",
	"meta-llama/Meta-Llama-3-8B-Instruct",
	"meta-llama/llama-2-70b-chat",
	"mistralai/Mistral-7B-Instruct-v0.1",
	"microsoft/DialoGPT-xl",
}

// huggingFaceFamilies are accepted even when the exact model is not listed
var huggingFaceFamilies = []string{"llama", "DialoGPT", "blenderbot", "mistral", "google", "flan-t5"}

// conversationalFamilies mark models that are served through chat completion
var conversationalFamilies = []string{"Llama", "llama", "DialoGPT", "blenderbot", "Mistral-7B-Instruct"}

// HuggingFaceRequest is the text-generation request body
type HuggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters HuggingFaceParameters `json:"parameters"`
	Options    HuggingFaceOptions    `json:"options"`
}

type HuggingFaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type HuggingFaceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type huggingFaceGeneration struct {
	GeneratedText string `json:"generated_text"`
	Text          string `json:"text"`
}

type huggingFaceErrorBody struct {
	Error string `json:"error"`
}

// HuggingFaceProvider talks to the Hugging Face inference API. Text generation
// is tried first; chat completion is a single fallback for models that do not
// serve the text-generation task.
type HuggingFaceProvider struct {
	client      *resty.Client
	baseURL     string
	chatBaseURL string
	logger      *zap.Logger
}

// NewHuggingFaceProvider creates a provider. Empty URLs select the public endpoints.
func NewHuggingFaceProvider(baseURL, chatBaseURL string, logger *zap.Logger) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	if chatBaseURL == "" {
		chatBaseURL = defaultHuggingFaceChatBaseURL
	}
	return &HuggingFaceProvider{
		client:      resty.New(),
		baseURL:     strings.TrimRight(baseURL, "/"),
		chatBaseURL: strings.TrimRight(chatBaseURL, "/"),
		logger:      logger,
	}
}

func (p *HuggingFaceProvider) Name() string {
	return VendorHuggingFace
}

func (p *HuggingFaceProvider) DescribeCatalog() Catalog {
	return Catalog{
		Vendor:       VendorHuggingFace,
		Description:  "Hugging Face Inference API with free open models",
		Free:         true,
		Models:       append([]string(nil), huggingFaceModels...),
		DefaultModel: defaultModels[VendorHuggingFace],
	}
}

func (p *HuggingFaceProvider) SupportsModel(model string) bool {
	if containsModel(huggingFaceModels, model) {
		return true
	}
	for _, family := range huggingFaceFamilies {
		if strings.Contains(model, family) {
			return true
		}
	}
	return false
}

func (p *HuggingFaceProvider) TestCredential(ctx context.Context, apiKey, model string) CredentialCheck {
	return testCredential(ctx, p, apiKey, model)
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt, model, apiKey string, opts GenerateOptions) (string, error) {
	if apiKey == "" {
		return "", NewError(KindMissingCredential, VendorHuggingFace, model, "API key is required for Hugging Face", nil)
	}
	if model == "" {
		model = defaultModels[VendorHuggingFace]
	}
	ctx, cancel := callContext(ctx, opts)
	defer cancel()

	p.logger.Debug("Hugging Face text generation",
		zap.String("model", model),
		zap.String("api_key", maskKey(apiKey)),
		zap.Int("prompt_length", len(prompt)))

	text, err := p.textGeneration(ctx, prompt, model, apiKey, opts)
	if err == nil {
		return text, nil
	}
	if !p.shouldFallBack(model, err) {
		return "", err
	}

	p.logger.Info("Falling back to chat completion",
		zap.String("model", model),
		zap.Error(err))

	return p.chatCompletion(ctx, prompt, model, apiKey, opts)
}

// shouldFallBack decides whether the single chat-completion attempt is made
func (p *HuggingFaceProvider) shouldFallBack(model string, err error) bool {
	e := AsError(err)
	if isUnsupportedTask(e.Msg) {
		return true
	}
	if e.Kind != KindModelUnavailable && e.Kind != KindUnknown {
		return false
	}
	return isConversationalModel(model)
}

func (p *HuggingFaceProvider) textGeneration(ctx context.Context, prompt, model, apiKey string, opts GenerateOptions) (string, error) {
	body := HuggingFaceRequest{
		Inputs: prompt,
		Parameters: HuggingFaceParameters{
			MaxNewTokens:   opts.MaxTokens,
			Temperature:    opts.Temperature,
			ReturnFullText: false,
		},
		Options: HuggingFaceOptions{WaitForModel: true},
	}

	var raw json.RawMessage
	var errBody huggingFaceErrorBody
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&raw).
		SetError(&errBody).
		Post(p.baseURL + "/models/" + model)
	if err != nil {
		return "", transportError(ctx, VendorHuggingFace, model, err)
	}
	if resp.IsError() {
		return "", p.responseError(resp.StatusCode(), errBody.Error, resp.String(), model)
	}

	return decodeHuggingFaceGeneration(raw, model)
}

func (p *HuggingFaceProvider) chatCompletion(ctx context.Context, prompt, model, apiKey string, opts GenerateOptions) (string, error) {
	body := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	}

	var result openai.ChatCompletionResponse
	var errBody huggingFaceErrorBody
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		SetError(&errBody).
		Post(p.chatBaseURL + "/chat/completions")
	if err != nil {
		return "", transportError(ctx, VendorHuggingFace, model, err)
	}
	if resp.IsError() {
		return "", p.responseError(resp.StatusCode(), errBody.Error, resp.String(), model)
	}
	if len(result.Choices) == 0 {
		return "", NewError(KindMalformedOutput, VendorHuggingFace, model, "chat completion returned no choices", nil)
	}
	return result.Choices[0].Message.Content, nil
}

func (p *HuggingFaceProvider) responseError(status int, vendorMsg, body, model string) error {
	msg := firstNonEmpty(vendorMsg, strings.TrimSpace(body), statusText(status))

	kind := classifyFailure(status, msg)
	if isUnsupportedTask(msg) {
		kind = KindModelUnavailable
	}
	return NewError(kind, VendorHuggingFace, model, fmt.Sprintf("HTTP %d: %s", status, msg), nil)
}

// decodeHuggingFaceGeneration accepts either [{generated_text}] or {generated_text}
func decodeHuggingFaceGeneration(body []byte, model string) (string, error) {
	var list []huggingFaceGeneration
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", NewError(KindMalformedOutput, VendorHuggingFace, model, "empty generation list", nil)
		}
		return firstNonEmpty(list[0].GeneratedText, list[0].Text), nil
	}

	var single huggingFaceGeneration
	if err := json.Unmarshal(body, &single); err != nil {
		return "", NewError(KindMalformedOutput, VendorHuggingFace, model, "undecodable generation payload", err)
	}
	return firstNonEmpty(single.GeneratedText, single.Text), nil
}

func isUnsupportedTask(msg string) bool {
	return strings.Contains(msg, "not supported for task") || strings.Contains(msg, "Task not supported")
}

func isConversationalModel(model string) bool {
	for _, family := range conversationalFamilies {
		if strings.Contains(model, family) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// transportError classifies failures that happened before a response arrived
func transportError(ctx context.Context, vendor, model string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return NewError(KindTimeout, vendor, model, "request timed out", err)
	}
	if ctx.Err() == context.Canceled {
		return NewError(KindUnknown, vendor, model, "request canceled", ctx.Err())
	}
	return NewError(KindUnknown, vendor, model, "request failed", err)
}

var _ Provider = (*HuggingFaceProvider)(nil)

// statusText is used when a vendor error carries no body
func statusText(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("status %d", status)
}
