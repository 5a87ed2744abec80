package aiprovider

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrNoActiveProvider indicates no provider has been selected on the router.
	ErrNoActiveProvider = errors.New("aiprovider: no active provider selected")

	// ErrNoAPIKey indicates the selected provider has no stored credential.
	ErrNoAPIKey = errors.New("aiprovider: no API key configured")

	// ErrInvocationInFlight indicates another invocation is still streaming.
	// The router rejects concurrent invocations rather than interleaving them.
	ErrInvocationInFlight = errors.New("aiprovider: an invocation is already in flight")

	// ErrModelNotDownloaded indicates the local model weights file is absent.
	ErrModelNotDownloaded = errors.New("aiprovider: model not downloaded")

	// ErrBackendNotInitialized indicates no local inference runtime was registered.
	ErrBackendNotInitialized = errors.New("aiprovider: local backend not initialized")
)

// UnsupportedProviderError indicates an unknown or unregistered provider.
type UnsupportedProviderError struct {
	Provider string // The provider that was requested
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider not supported: %s", e.Provider)
}

// APIError represents a non-2xx response from a cloud provider.
// Body carries the raw response text so callers can surface provider detail.
type APIError struct {
	Provider   string // The provider name
	StatusCode int    // HTTP status code
	Body       string // Raw response body text
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider '%s' API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// ToolArgumentError indicates a completed tool call whose argument JSON does
// not match the tool's declared schema. It is reported to the caller but does
// not abort the surrounding text stream.
type ToolArgumentError struct {
	Tool string // The tool that was invoked
	Args string // The raw argument JSON that failed to parse
	Err  error  // The underlying decode error
}

func (e *ToolArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for tool '%s': %v", e.Tool, e.Err)
}

func (e *ToolArgumentError) Unwrap() error {
	return e.Err
}

// ModelLoadError indicates the local model weights could not be loaded.
type ModelLoadError struct {
	Path string // The weights file path
	Err  error  // The underlying load failure
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// ContextError indicates the decoding context could not be created.
type ContextError struct {
	Err error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("failed to create context: %v", e.Err)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}

// TokenizationError indicates the formatted prompt could not be tokenized.
type TokenizationError struct {
	Err error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenization failed: %v", e.Err)
}

func (e *TokenizationError) Unwrap() error {
	return e.Err
}

// InferenceError indicates a decode-step failure. It is fatal to the session;
// the engine does not attempt partial recovery.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether an error ends the current invocation.
// Tool argument mismatches are the only non-fatal errors in the taxonomy.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var toolErr *ToolArgumentError
	return !errors.As(err, &toolErr)
}
