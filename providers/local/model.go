// Package local runs GGUF models through a pluggable inference runtime,
// implementing the streaming provider contract with a manual decode loop and
// a repetition-penalty greedy sampler.
package local

import (
	"sync"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// Token is a vocabulary token id.
type Token int32

// Candidate is one vocabulary entry with its model-assigned score at a
// decode step.
type Candidate struct {
	Token Token
	Logit float32
}

// Model is the runtime contract the engine decodes against. Implementations
// wrap an actual inference backend (llama.cpp bindings, a GGML server, a test
// fake); the engine owns prompting, sampling, and stop detection.
type Model interface {
	// Tokenize converts text to token ids, including any BOS the model needs.
	Tokenize(text string) ([]Token, error)

	// Decode evaluates tokens starting at the given context position. After a
	// successful call, Candidates reflects the logits of the last token.
	Decode(tokens []Token, pos int) error

	// Candidates returns the scored vocabulary for the next position.
	// The engine treats the slice as scratch and may reorder it.
	Candidates() []Candidate

	// TokenText renders a token as plaintext (no special-token markup).
	TokenText(t Token) (string, error)

	// IsEOG reports whether the token is an end-of-generation token.
	IsEOG(t Token) bool

	// Close releases model resources.
	Close() error
}

// Runtime opens a model from a weights file. gpuLayers is the number of
// layers to offload (0 for CPU-only inference).
type Runtime func(path string, gpuLayers int) (Model, error)

var (
	backendMu sync.RWMutex
	backend   Runtime
)

// InitBackend registers the process-wide inference runtime. Call once at
// startup; later calls replace the runtime (useful in tests).
func InitBackend(rt Runtime) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backend = rt
}

// getBackend returns the registered runtime.
func getBackend() (Runtime, error) {
	backendMu.RLock()
	defer backendMu.RUnlock()
	if backend == nil {
		return nil, aiprovider.ErrBackendNotInitialized
	}
	return backend, nil
}
