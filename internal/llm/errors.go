package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LLMError defines the interface for LLM-specific errors
type LLMError interface {
	error
	Code() string    // Error code for categorization
	Message() string // Human-readable error message
	Temporary() bool // Whether the error is temporary and retryable
}

// Kind is the closed set of failure categories a generation call can end in.
type Kind string

const (
	KindMissingCredential      Kind = "MISSING_CREDENTIAL"
	KindUnsupportedVendor      Kind = "UNSUPPORTED_VENDOR"
	KindInvalidCredential      Kind = "INVALID_CREDENTIAL"
	KindModelUnavailable       Kind = "MODEL_UNAVAILABLE"
	KindRateLimited            Kind = "RATE_LIMITED"
	KindQuotaExceeded          Kind = "QUOTA_EXCEEDED"
	KindMalformedOutput        Kind = "MALFORMED_OUTPUT"
	KindNoCredentialConfigured Kind = "NO_CREDENTIAL_CONFIGURED"
	KindTimeout                Kind = "TIMEOUT"
	KindUnknown                Kind = "UNKNOWN_ERROR"
)

// Retryable reports whether another attempt can change the outcome
func (k Kind) Retryable() bool {
	switch k {
	case KindRateLimited, KindQuotaExceeded, KindTimeout, KindUnknown:
		return true
	default:
		return false
	}
}

// Error is the only error type that leaves an adapter or the orchestrator.
type Error struct {
	Kind   Kind   `json:"kind"`
	Vendor string `json:"vendor,omitempty"`
	Model  string `json:"model,omitempty"`
	Msg    string `json:"message"`
	Cause  error  `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Vendor != "" {
		b.WriteString(" [")
		b.WriteString(e.Vendor)
		if e.Model != "" {
			b.WriteString("/")
			b.WriteString(e.Model)
		}
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" (caused by: %v)", e.Cause))
	}
	return b.String()
}

func (e *Error) Code() string {
	return string(e.Kind)
}

func (e *Error) Message() string {
	return e.Msg
}

func (e *Error) Temporary() bool {
	return e.Kind.Retryable()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage is the caller-facing text for the error category. Vendor
// detail stays in Msg and Cause and is only logged.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindMissingCredential:
		return "API key required"
	case KindUnsupportedVendor:
		return e.Msg
	case KindInvalidCredential:
		return "API credential is invalid or expired"
	case KindModelUnavailable:
		if e.Model != "" {
			return fmt.Sprintf("model '%s' is not available for %s", e.Model, e.Vendor)
		}
		return "requested model is not available"
	case KindRateLimited:
		return "too many requests, retry later"
	case KindQuotaExceeded:
		return "AI provider quota exceeded"
	case KindMalformedOutput:
		return "AI returned invalid format"
	case KindNoCredentialConfigured:
		return "configure AI integration first"
	case KindTimeout:
		return "request timed out"
	default:
		return "AI generation failed"
	}
}

// NewError creates an Error of the given kind
func NewError(kind Kind, vendor, model, msg string, cause error) *Error {
	return &Error{Kind: kind, Vendor: vendor, Model: model, Msg: msg, Cause: cause}
}

// ErrUnsupportedVendor builds the registry failure listing what is supported
func ErrUnsupportedVendor(vendor string, supported []string) *Error {
	return &Error{
		Kind:   KindUnsupportedVendor,
		Vendor: vendor,
		Msg:    fmt.Sprintf("unsupported AI provider '%s', supported providers: %s", vendor, strings.Join(supported, ", ")),
	}
}

// KindOf extracts the Kind from err, KindUnknown when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// AsError returns err as *Error, wrapping foreign errors as KindUnknown
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnknown, Msg: err.Error(), Cause: err}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var llmErr LLMError
	if errors.As(err, &llmErr) {
		return llmErr.Temporary()
	}
	return true
}

// classifyFailure maps a vendor status code and error body onto the taxonomy.
// Message text wins over status because several vendors answer 400 for
// everything.
func classifyFailure(status int, body string) Kind {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "api key not valid"),
		strings.Contains(lower, "invalid api key"),
		strings.Contains(lower, "invalid credentials"),
		strings.Contains(lower, "unauthorized"):
		return KindInvalidCredential
	case strings.Contains(lower, "quota exceeded"),
		strings.Contains(lower, "insufficient credits"),
		strings.Contains(lower, "insufficient_quota"):
		return KindQuotaExceeded
	case strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "too many requests"):
		return KindRateLimited
	case strings.Contains(lower, "model not found"),
		strings.Contains(lower, "no inference provider available"),
		strings.Contains(lower, "does not exist"):
		return KindModelUnavailable
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindInvalidCredential
	case http.StatusNotFound:
		return KindModelUnavailable
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusPaymentRequired:
		return KindQuotaExceeded
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindUnknown
	}
}
