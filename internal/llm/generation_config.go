package llm

import (
	"strings"
	"time"
)

const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 1000
	MinOutputTokens        = 100
	MaxOutputTokens        = 4000
	DefaultRequestTimeout  = 30 * time.Second
)

// defaultModels is consulted only by NormalizeConfig
var defaultModels = map[string]string{
	VendorHuggingFace: "microsoft/DialoGPT-medium",
	VendorOpenRouter:  "openai/gpt-3.5-turbo",
	VendorGemini:      "gemini-1.5-flash",
}

// GenerationConfig is built per request and never stored. Nil pointers mean
// "use the default".
type GenerationConfig struct {
	Vendor          string   `json:"provider"`
	APIKey          string   `json:"-"`
	Model           string   `json:"model,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxTokens,omitempty"`
}

// ResolvedConfig is a GenerationConfig with every field filled in
type ResolvedConfig struct {
	Vendor          string
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Defaults supplies the values NormalizeConfig fills in
type Defaults struct {
	Temperature     float64
	MaxOutputTokens int
	Models          map[string]string
}

// DefaultDefaults returns the built-in defaults table
func DefaultDefaults() Defaults {
	models := make(map[string]string, len(defaultModels))
	for k, v := range defaultModels {
		models[k] = v
	}
	return Defaults{
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
		Models:          models,
	}
}

// WithModelOverrides replaces default models for vendors with a non-empty override
func (d Defaults) WithModelOverrides(overrides map[string]string) Defaults {
	models := make(map[string]string, len(d.Models))
	for k, v := range d.Models {
		models[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			models[k] = v
		}
	}
	d.Models = models
	return d
}

// DefaultModel returns the default model for vendor, or "" when unknown
func (d Defaults) DefaultModel(vendor string) string {
	if m, ok := d.Models[vendor]; ok {
		return m
	}
	return defaultModels[vendor]
}

// NormalizeConfig fills absent fields and clamps the present ones. It is pure
// and idempotent: normalizing an already normalized config changes nothing.
func NormalizeConfig(cfg GenerationConfig, d Defaults) GenerationConfig {
	out := GenerationConfig{
		Vendor: strings.ToLower(strings.TrimSpace(cfg.Vendor)),
		APIKey: strings.TrimSpace(cfg.APIKey),
		Model:  strings.TrimSpace(cfg.Model),
	}

	if out.Model == "" {
		out.Model = d.DefaultModel(out.Vendor)
	}

	temperature := d.Temperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	temperature = clampFloat(temperature, 0, 1)
	out.Temperature = &temperature

	tokens := d.MaxOutputTokens
	if cfg.MaxOutputTokens != nil {
		tokens = *cfg.MaxOutputTokens
	}
	tokens = clampInt(tokens, MinOutputTokens, MaxOutputTokens)
	out.MaxOutputTokens = &tokens

	return out
}

// Resolve flattens a normalized config
func (c GenerationConfig) Resolve(d Defaults) ResolvedConfig {
	n := NormalizeConfig(c, d)
	return ResolvedConfig{
		Vendor:          n.Vendor,
		APIKey:          n.APIKey,
		Model:           n.Model,
		Temperature:     *n.Temperature,
		MaxOutputTokens: *n.MaxOutputTokens,
	}
}

// ValidateConfig fails before any network activity when the call cannot succeed
func ValidateConfig(cfg GenerationConfig, registry *Registry) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NewError(KindMissingCredential, cfg.Vendor, cfg.Model, "API key is required", nil)
	}
	vendor := strings.ToLower(strings.TrimSpace(cfg.Vendor))
	if !registry.IsSupported(vendor) {
		return ErrUnsupportedVendor(cfg.Vendor, registry.Vendors())
	}
	return nil
}

// Float64 and Int return pointers for optional config fields
func Float64(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
