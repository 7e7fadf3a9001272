package llm

import (
	"context"
	"strings"
	"time"
)

// Vendor identifiers known at compile time
const (
	VendorHuggingFace = "huggingface"
	VendorOpenRouter  = "openrouter"
	VendorGemini      = "gemini"
)

// Provider defines the uniform contract every LLM vendor adapter implements
type Provider interface {
	// Name returns the vendor identifier the provider is registered under
	Name() string

	// Generate issues one logical call to the vendor and returns the raw text.
	// Failures are always *Error with a classified Kind. No retries happen here.
	Generate(ctx context.Context, prompt, model, apiKey string, opts GenerateOptions) (string, error)

	// TestCredential runs a minimal generation and reports whether it worked.
	// It never returns an error; failures end up in CredentialCheck.Message.
	TestCredential(ctx context.Context, apiKey, model string) CredentialCheck

	// DescribeCatalog returns static metadata about the vendor
	DescribeCatalog() Catalog

	// SupportsModel reports whether model is known or belongs to a known family
	SupportsModel(model string) bool
}

// GenerateOptions are the per-call knobs forwarded to a vendor
type GenerateOptions struct {
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`
}

// CredentialCheck is the outcome of Provider.TestCredential
type CredentialCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Vendor  string `json:"provider"`
	Model   string `json:"model,omitempty"`
}

// Catalog describes one vendor for listing
type Catalog struct {
	Vendor       string   `json:"provider"`
	Description  string   `json:"description"`
	Free         bool     `json:"isFree"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
}

const (
	credentialTestPrompt      = "Hello, how are you?"
	credentialTestTemperature = 0.1
	credentialTestMaxTokens   = 50
)

// testCredential is the shared TestCredential behavior: a tiny generation
// whose success or failure becomes the check result.
func testCredential(ctx context.Context, p Provider, apiKey, model string) CredentialCheck {
	check := CredentialCheck{Vendor: p.Name(), Model: model}
	if model == "" {
		check.Model = p.DescribeCatalog().DefaultModel
	}

	if strings.TrimSpace(apiKey) == "" {
		check.Message = "API key required"
		return check
	}

	text, err := p.Generate(ctx, credentialTestPrompt, check.Model, apiKey, GenerateOptions{
		Temperature: credentialTestTemperature,
		MaxTokens:   credentialTestMaxTokens,
	})
	if err != nil {
		check.Message = AsError(err).UserMessage()
		return check
	}
	if strings.TrimSpace(text) == "" {
		check.Message = "API key test failed: empty response"
		return check
	}

	check.Valid = true
	check.Message = "API key is valid"
	return check
}

// containsModel does an exact catalog lookup
func containsModel(models []string, model string) bool {
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}

// maskKey keeps enough of a key to tell two apart in logs
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****"
}

// callContext bounds a single vendor call by opts.Timeout when it is set
func callContext(ctx context.Context, opts GenerateOptions) (context.Context, context.CancelFunc) {
	if opts.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, opts.Timeout)
}
