package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"todoai-api/internal/common"
	"todoai-api/internal/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Orchestrator runs normalize, dispatch and retry around a provider call.
// It holds no per-request state and can be shared.
type Orchestrator struct {
	registry *Registry
	defaults Defaults
	policy   RetryPolicy
	timeout  time.Duration
	clock    common.Clock
	logger   *zap.Logger
}

// OrchestratorOption customizes an Orchestrator
type OrchestratorOption func(*Orchestrator)

func WithRetryPolicy(p RetryPolicy) OrchestratorOption {
	return func(o *Orchestrator) { o.policy = p }
}

func WithDefaults(d Defaults) OrchestratorOption {
	return func(o *Orchestrator) { o.defaults = d }
}

// WithRequestTimeout bounds every single vendor call
func WithRequestTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithClock replaces the clock used for retry delays
func WithClock(c common.Clock) OrchestratorOption {
	return func(o *Orchestrator) { o.clock = c }
}

func NewOrchestrator(registry *Registry, logger *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		defaults: DefaultDefaults(),
		policy:   DefaultRetryPolicy(),
		timeout:  DefaultRequestTimeout,
		clock:    common.NewRealClock(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry exposes the provider registry the orchestrator dispatches through
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// NormalizeConfig fills defaults using the orchestrator's table
func (o *Orchestrator) NormalizeConfig(cfg GenerationConfig) GenerationConfig {
	return NormalizeConfig(cfg, o.defaults)
}

// ValidateConfig fails with MissingCredential or UnsupportedVendor
func (o *Orchestrator) ValidateConfig(cfg GenerationConfig) error {
	return ValidateConfig(cfg, o.registry)
}

// GenerateText dispatches prompt under the retry policy and returns raw text
func (o *Orchestrator) GenerateText(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	return o.generate(ctx, "text", prompt, cfg)
}

// GenerateTasks asks for a task array and parses it. Parsing never fails, so
// any error comes from the provider call.
func (o *Orchestrator) GenerateTasks(ctx context.Context, goal string, cfg GenerationConfig) ([]TaskSuggestion, error) {
	text, err := o.generate(ctx, "tasks", BuildTaskPrompt(goal), cfg)
	if err != nil {
		return nil, err
	}

	tasks := ParseTasks(text)
	o.logger.Info("Parsed generated tasks",
		zap.String("vendor", cfg.Vendor),
		zap.Int("count", len(tasks)),
		zap.Int("raw_length", len(text)))
	return tasks, nil
}

// GenerateTitle returns a cleaned list title of at most MaxListTitleLength runes
func (o *Orchestrator) GenerateTitle(ctx context.Context, goal string, cfg GenerationConfig) (string, error) {
	text, err := o.generate(ctx, "title", BuildTitlePrompt(goal), cfg)
	if err != nil {
		return "", err
	}
	title := cleanTitle(text)
	if title == "" {
		return "", NewError(KindMalformedOutput, cfg.Vendor, cfg.Model, "empty title", nil)
	}
	return title, nil
}

// GenerateDescription returns a cleaned list description
func (o *Orchestrator) GenerateDescription(ctx context.Context, goal string, cfg GenerationConfig) (string, error) {
	text, err := o.generate(ctx, "description", BuildDescriptionPrompt(goal), cfg)
	if err != nil {
		return "", err
	}
	description := cleanDescription(text)
	if description == "" {
		return "", NewError(KindMalformedOutput, cfg.Vendor, cfg.Model, "empty description", nil)
	}
	return description, nil
}

// TestCredential validates a key against vendor without retries
func (o *Orchestrator) TestCredential(ctx context.Context, cfg GenerationConfig) CredentialCheck {
	provider, err := o.registry.Resolve(cfg.Vendor)
	if err != nil {
		return CredentialCheck{Vendor: cfg.Vendor, Model: cfg.Model, Message: AsError(err).UserMessage()}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return provider.TestCredential(ctx, strings.TrimSpace(cfg.APIKey), strings.TrimSpace(cfg.Model))
}

func (o *Orchestrator) generate(ctx context.Context, operation, prompt string, cfg GenerationConfig) (string, error) {
	if err := o.ValidateConfig(cfg); err != nil {
		return "", err
	}
	provider, err := o.registry.Resolve(cfg.Vendor)
	if err != nil {
		return "", err
	}
	resolved := cfg.Resolve(o.defaults)
	opts := GenerateOptions{
		Temperature: resolved.Temperature,
		MaxTokens:   resolved.MaxOutputTokens,
		Timeout:     o.timeout,
	}

	start := o.clock.Now()
	defer func() {
		metrics.GenerationDuration.WithLabelValues(resolved.Vendor, operation).Observe(o.clock.Now().Sub(start).Seconds())
	}()

	var (
		text    string
		attempt int
	)
	op := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()

		out, err := provider.Generate(attemptCtx, prompt, resolved.Model, resolved.APIKey, opts)
		if err == nil {
			metrics.ProviderAttemptsTotal.WithLabelValues(resolved.Vendor, "success").Inc()
			text = out
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		e := classifyAttempt(attemptCtx, err, resolved)
		metrics.ProviderAttemptsTotal.WithLabelValues(resolved.Vendor, strings.ToLower(string(e.Kind))).Inc()
		o.logger.Warn("Provider call failed",
			zap.String("vendor", resolved.Vendor),
			zap.String("model", resolved.Model),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.String("kind", string(e.Kind)),
			zap.Error(e))

		if !o.policy.ShouldRetry(e.Kind, attempt) {
			return backoff.Permanent(e)
		}
		return e
	}

	notify := func(err error, wait time.Duration) {
		o.logger.Info("Retrying provider call",
			zap.String("vendor", resolved.Vendor),
			zap.Int("next_attempt", attempt+1),
			zap.Duration("delay", wait))
	}

	err = backoff.RetryNotifyWithTimer(op, backoff.WithContext(o.policy.NewBackOff(), ctx), notify, common.NewBackoffTimer(o.clock))
	if err == nil {
		return text, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		kind := KindUnknown
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return "", NewError(kind, resolved.Vendor, resolved.Model, "request canceled", ctxErr)
	}
	return "", AsError(err)
}

// classifyAttempt copies the provider error and tags it with the call
// context. A per-attempt deadline always counts as a timeout.
func classifyAttempt(attemptCtx context.Context, err error, cfg ResolvedConfig) *Error {
	e := *AsError(err)
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		e.Kind = KindTimeout
		if e.Msg == "" {
			e.Msg = "request timed out"
		}
	}
	if e.Vendor == "" {
		e.Vendor = cfg.Vendor
	}
	if e.Model == "" {
		e.Model = cfg.Model
	}
	return &e
}
