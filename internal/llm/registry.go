package llm

import (
	"strings"

	"todoai-api/internal/config"

	"go.uber.org/zap"
)

// Registry resolves vendor identifiers to providers. It is built once at
// startup and only read afterwards, so it is safe for concurrent use.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry registers providers in order. A later provider with the same
// name replaces the earlier one but keeps its position.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		name := p.Name()
		if _, exists := r.providers[name]; !exists {
			r.order = append(r.order, name)
		}
		r.providers[name] = p
	}
	return r
}

// NewDefaultRegistry registers every built-in vendor using cfg for endpoints
func NewDefaultRegistry(cfg config.LLMConfig, logger *zap.Logger) *Registry {
	return NewRegistry(
		NewHuggingFaceProvider(cfg.HuggingFace.BaseURL, cfg.HuggingFace.ChatBaseURL, logger.Named(VendorHuggingFace)),
		NewOpenRouterProvider(OpenRouterOptions{
			BaseURL: cfg.OpenRouter.BaseURL,
			Referer: cfg.OpenRouter.Referer,
			Title:   cfg.OpenRouter.Title,
		}, logger.Named(VendorOpenRouter)),
		NewGeminiProvider(cfg.Gemini.BaseURL, logger.Named(VendorGemini)),
	)
}

// Resolve returns the provider for vendor or an UnsupportedVendor error
func (r *Registry) Resolve(vendor string) (Provider, error) {
	p, ok := r.providers[normalizeVendor(vendor)]
	if !ok {
		return nil, ErrUnsupportedVendor(vendor, r.Vendors())
	}
	return p, nil
}

// ListCatalog returns catalog metadata in registration order
func (r *Registry) ListCatalog() []Catalog {
	out := make([]Catalog, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name].DescribeCatalog())
	}
	return out
}

func (r *Registry) IsSupported(vendor string) bool {
	_, ok := r.providers[normalizeVendor(vendor)]
	return ok
}

func (r *Registry) SupportsModel(vendor, model string) bool {
	p, ok := r.providers[normalizeVendor(vendor)]
	return ok && p.SupportsModel(model)
}

// Vendors returns registered vendor names in registration order
func (r *Registry) Vendors() []string {
	return append([]string(nil), r.order...)
}

func normalizeVendor(vendor string) string {
	return strings.ToLower(strings.TrimSpace(vendor))
}
