package aiprovider

// ProviderID represents a unique provider identifier.
// Using a typed constant prevents typos and provides compile-time safety.
type ProviderID string

// Known provider identifiers
const (
	// ProviderOpenAI is OpenAI's chat completions API
	ProviderOpenAI ProviderID = "openai"

	// ProviderAnthropic is Anthropic's messages API
	ProviderAnthropic ProviderID = "anthropic"

	// ProviderGoogle is Google's Gemini streamGenerateContent API
	ProviderGoogle ProviderID = "google"

	// ProviderPoro2 is the local Poro 2 8B Instruct GGUF model
	ProviderPoro2 ProviderID = "poro2_8b"

	// ProviderFinChat is the local Finnish chat summarization GGUF model
	ProviderFinChat ProviderID = "finchat_summary"

	// ProviderLorem is the mock Lorem provider for testing
	ProviderLorem ProviderID = "lorem"
)

// String returns the string representation of the provider ID
func (p ProviderID) String() string {
	return string(p)
}

// IsValid returns true if the provider ID is a known provider
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderPoro2, ProviderFinChat, ProviderLorem:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider needs a remote credential.
// Local GGUF models and the lorem mock run without one.
func (p ProviderID) RequiresAPIKey() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle:
		return true
	default:
		return false
	}
}

// IsLocal returns true for providers backed by the local generation engine.
func (p ProviderID) IsLocal() bool {
	return p == ProviderPoro2 || p == ProviderFinChat
}

// DisplayName returns a human-readable provider name for UIs.
func (p ProviderID) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderGoogle:
		return "Google"
	case ProviderPoro2:
		return "Poro 2 8B Instruct"
	case ProviderFinChat:
		return "FIN Chat Summarization"
	case ProviderLorem:
		return "Lorem (mock)"
	default:
		return string(p)
	}
}

// AllProviders returns every known provider in display order.
func AllProviders() []ProviderID {
	return []ProviderID{
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderGoogle,
		ProviderPoro2,
		ProviderFinChat,
		ProviderLorem,
	}
}

// ParseProviderID converts a stored string into a ProviderID.
// Returns an UnsupportedProviderError for unknown values.
func ParseProviderID(s string) (ProviderID, error) {
	p := ProviderID(s)
	if !p.IsValid() {
		return "", &UnsupportedProviderError{Provider: s}
	}
	return p, nil
}
