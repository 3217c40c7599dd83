// Package errors provides structured error types for Nexus.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error codes for Nexus operations.
const (
	// Definition errors - invalid workflow source, fatal before execution
	CodeDefinitionParse     = "DEF_001" // Malformed YAML
	CodeDefinitionMissing   = "DEF_002" // Missing required field
	CodeDefinitionDuplicate = "DEF_003" // Duplicate step name
	CodeDefinitionInvalid   = "DEF_004" // Invalid field value
	CodeDefinitionUnknown   = "DEF_005" // Unknown key in strict mode
	CodeDefinitionNotFound  = "DEF_006" // Workflow not found in any source

	// Variable errors - absorbed into the step result, never fatal
	CodeVarUnresolved = "VAR_001" // Variable could not be resolved

	// Step execution errors - always captured in the ledger
	CodeStepSpawnFailed = "STEP_001" // Process could not be started
	CodeStepTimeout     = "STEP_002" // Process killed after timeout

	// Config errors
	CodeConfigParse   = "CONFIG_001" // Malformed config file
	CodeConfigInvalid = "CONFIG_002" // Invalid config value

	// Storage errors
	CodeStoreOpen  = "STORE_001" // Database could not be opened
	CodeStoreQuery = "STORE_002" // Query failed

	// AI client errors
	CodeAIUnknownProvider = "AI_001" // Provider name not recognized
	CodeAIMissingKey      = "AI_002" // API key not configured
	CodeAIRequestFailed   = "AI_003" // HTTP request failed
	CodeAIRateLimited     = "AI_004" // Local rate limit exceeded

	// Transcription errors
	CodeTranscribeDependency = "TRANS_001" // Required tool not installed
	CodeTranscribeBadURL     = "TRANS_002" // Video URL not recognized
	CodeTranscribeFailed     = "TRANS_003" // Download or transcription failed
)

// NexusError is the structured error type for Nexus operations.
type NexusError struct {
	Code    string         `json:"code"`              // Error code (e.g., "DEF_001")
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Context (workflow, step, etc.)
	Cause   error          `json:"-"`                 // Wrapped error (not serialized)
}

// Error implements the error interface.
func (e *NexusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *NexusError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error.
func (e *NexusError) WithDetail(key string, value any) *NexusError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *NexusError) WithCause(err error) *NexusError {
	e.Cause = err
	return e
}

// MarshalJSON implements json.Marshaler with cause error message.
func (e *NexusError) MarshalJSON() ([]byte, error) {
	type alias NexusError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// New creates a new NexusError.
func New(code, message string) *NexusError {
	return &NexusError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new NexusError with formatted message.
func Newf(code, format string, args ...any) *NexusError {
	return &NexusError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with a NexusError.
func Wrap(code, message string, err error) *NexusError {
	return &NexusError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted NexusError.
func Wrapf(code string, err error, format string, args ...any) *NexusError {
	return &NexusError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// --- Definition Errors ---

// DefinitionParse creates an error for a workflow that failed to parse.
func DefinitionParse(source string, err error) *NexusError {
	return Wrap(CodeDefinitionParse, "failed to parse workflow definition", err).
		WithDetail("source", source)
}

// DefinitionMissingField creates an error for a missing required field.
func DefinitionMissingField(source, field string) *NexusError {
	return Newf(CodeDefinitionMissing, "workflow definition missing required field: %s", field).
		WithDetail("source", source).
		WithDetail("field", field)
}

// DefinitionDuplicateStep creates an error for a duplicate step name.
func DefinitionDuplicateStep(source, step string) *NexusError {
	return Newf(CodeDefinitionDuplicate, "duplicate step name: %s", step).
		WithDetail("source", source).
		WithDetail("step", step)
}

// DefinitionInvalidValue creates an error for an invalid field value.
func DefinitionInvalidValue(source, field, reason string) *NexusError {
	return Newf(CodeDefinitionInvalid, "invalid value for %s: %s", field, reason).
		WithDetail("source", source).
		WithDetail("field", field)
}

// DefinitionUnknownKey creates an error for an unknown key in strict mode.
func DefinitionUnknownKey(source, key string) *NexusError {
	return Newf(CodeDefinitionUnknown, "unknown key in workflow definition: %s", key).
		WithDetail("source", source).
		WithDetail("key", key)
}

// DefinitionNotFound creates an error for a workflow missing from all sources.
func DefinitionNotFound(name string, searched []string) *NexusError {
	return Newf(CodeDefinitionNotFound, "workflow not found: %s", name).
		WithDetail("name", name).
		WithDetail("searched", searched)
}

// IsDefinitionError reports whether err is any definition error.
func IsDefinitionError(err error) bool {
	return strings.HasPrefix(Code(err), "DEF_")
}

// --- Variable Errors ---

// UnresolvedVariable creates an error for a variable that could not be
// resolved from run-time overrides, workflow defaults, or the environment.
func UnresolvedVariable(name string) *NexusError {
	return Newf(CodeVarUnresolved, "unresolved variable: ${%s}", name).
		WithDetail("variable", name)
}

// --- Step Execution Errors ---

// StepSpawnFailed creates an error for a process that could not start.
func StepSpawnFailed(step string, err error) *NexusError {
	return Wrap(CodeStepSpawnFailed, "failed to start command", err).
		WithDetail("step", step)
}

// StepTimeout creates an error for a step killed after its timeout.
func StepTimeout(step string, seconds float64) *NexusError {
	return Newf(CodeStepTimeout, "command timed out after %.0f seconds", seconds).
		WithDetail("step", step)
}

// --- Config Errors ---

// ConfigParse creates an error for a malformed config file.
func ConfigParse(path string, err error) *NexusError {
	return Wrap(CodeConfigParse, "failed to parse config", err).
		WithDetail("path", path)
}

// ConfigInvalidValue creates an error for an invalid config value.
func ConfigInvalidValue(field, reason string) *NexusError {
	return Newf(CodeConfigInvalid, "invalid config value for %s: %s", field, reason).
		WithDetail("field", field)
}

// --- AI Errors ---

// AIUnknownProvider creates an error for an unrecognized provider name.
func AIUnknownProvider(provider string) *NexusError {
	return Newf(CodeAIUnknownProvider, "unknown provider: %s", provider).
		WithDetail("provider", provider)
}

// AIMissingKey creates an error for a provider without an API key.
func AIMissingKey(provider, envVar string) *NexusError {
	return Newf(CodeAIMissingKey, "%s API key not found. Set %s or configure providers.%s.api_key", provider, envVar, provider).
		WithDetail("provider", provider)
}

// AIRateLimited creates an error for a locally rate-limited request.
func AIRateLimited(provider, hint string) *NexusError {
	return Newf(CodeAIRateLimited, "rate limit exceeded: %s", hint).
		WithDetail("provider", provider)
}

// --- Transcription Errors ---

// TranscribeDependency creates an error for a missing external tool.
func TranscribeDependency(tool string) *NexusError {
	return Newf(CodeTranscribeDependency, "required tool not installed: %s", tool).
		WithDetail("tool", tool)
}

// TranscribeBadURL creates an error for an unrecognized video URL.
func TranscribeBadURL(url string) *NexusError {
	return Newf(CodeTranscribeBadURL, "could not extract a video ID from: %s", url).
		WithDetail("url", url)
}

// TranscribeFailed creates an error for a failed pipeline stage.
func TranscribeFailed(stage string, err error) *NexusError {
	return Wrap(CodeTranscribeFailed, stage+" failed", err).
		WithDetail("stage", stage)
}

// HasCode checks if an error is a NexusError with the given code.
// It handles wrapped errors by unwrapping to find a NexusError.
func HasCode(err error, code string) bool {
	var nerr *NexusError
	if errors.As(err, &nerr) {
		return nerr.Code == code
	}
	return false
}

// Code returns the error code if err is a NexusError, empty string otherwise.
// It handles wrapped errors by unwrapping to find a NexusError.
func Code(err error) string {
	var nerr *NexusError
	if errors.As(err, &nerr) {
		return nerr.Code
	}
	return ""
}
