package aiprovider

import (
	"context"
)

// Provider defines the interface that all generation backends must implement.
// This abstraction covers cloud adapters (OpenAI, Anthropic, Google), the
// local GGUF engine, and the lorem mock behind one streaming contract.
type Provider interface {
	// StreamResponse starts one generation and returns a channel of events.
	// Fragments arrive in decode order; the channel always delivers exactly
	// one terminal chunk ({"", done:true}) before closing, even when a fatal
	// error event precedes it.
	//
	// Usage:
	//   events, err := provider.StreamResponse(ctx, req)
	//   if err != nil { return err }
	//   for event := range events {
	//     if event.Error != nil { record failure }
	//     if event.Chunk != nil { append or finish }
	//   }
	StreamResponse(ctx context.Context, req *InvokeRequest) (<-chan StreamEvent, error)

	// Name returns the provider identifier (e.g. "openai", "poro2_8b")
	Name() ProviderID
}

// CredentialSource looks up the stored API key for a provider.
// Implemented by the keystore package. Absence is reported as an error; the
// router and the cloud adapters translate it to ErrNoAPIKey.
type CredentialSource interface {
	APIKey(provider string) (string, error)
}

// ModelSource resolves the user's model selection for a provider
// (e.g. "gpt-5.2-codex" for openai). Implemented by the settings package.
type ModelSource interface {
	ProviderModel(provider string) string
}

// ToolExecutor runs a model-issued tool call. The argument payload is the raw
// JSON object string accumulated from the stream.
type ToolExecutor interface {
	Execute(name, argsJSON string) (string, error)
}
