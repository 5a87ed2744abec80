package local

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	aiprovider "github.com/hexnote/hexnote-ai-go"
	"github.com/hexnote/hexnote-ai-go/localmodel"
	"github.com/hexnote/hexnote-ai-go/settings"
)

// Engine constants. Context and batch sizes are fixed, not user-tunable;
// they are sized conservatively for CPU inference.
const (
	contextSize      = 2048
	batchSize        = 512
	defaultMaxTokens = 512
	gpuOffloadLayers = 32
)

// Config configures an Engine.
type Config struct {
	// Provider selects the model family (poro2_8b or finchat_summary).
	Provider aiprovider.ProviderID

	// Settings resolves the weights source and the GPU preference.
	Settings *settings.Manager

	// Runtime overrides the registered global backend. Nil uses InitBackend's.
	Runtime Runtime

	// MaxTokens caps the number of generated tokens. Zero uses the default.
	MaxTokens int

	// WeightsPath overrides weights resolution via settings. Used in tests.
	WeightsPath string
}

// Engine is the local generation backend. Each StreamResponse call runs one
// generation session through its state machine: load model, build context,
// decode token by token, finish.
type Engine struct {
	cfg Config
}

// NewEngine creates a local engine for the given provider.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Engine{cfg: cfg}
}

// Name returns the provider identifier.
func (e *Engine) Name() aiprovider.ProviderID {
	return e.cfg.Provider
}

// StreamResponse runs one local generation session. The decode loop runs in
// its own goroutine since it may take hundreds of steps on CPU; fragments are
// emitted as they are produced.
func (e *Engine) StreamResponse(ctx context.Context, req *aiprovider.InvokeRequest) (<-chan aiprovider.StreamEvent, error) {
	events := make(chan aiprovider.StreamEvent, 10)

	go func() {
		defer close(events)
		emit := aiprovider.NewEmitter(events)
		if err := e.run(ctx, req, emit); err != nil {
			emit.Fail(err)
		}
		emit.Finish()
	}()

	return events, nil
}

// run drives the session from model loading through the decode loop.
func (e *Engine) run(ctx context.Context, req *aiprovider.InvokeRequest, emit *aiprovider.Emitter) error {
	// --- ModelLoading ---
	path, err := e.weightsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return aiprovider.ErrModelNotDownloaded
		}
		return &aiprovider.ModelLoadError{Path: path, Err: err}
	}

	runtime := e.cfg.Runtime
	if runtime == nil {
		runtime, err = getBackend()
		if err != nil {
			return err
		}
	}

	if err := localmodel.ValidateGGUF(path); err != nil {
		return &aiprovider.ModelLoadError{Path: path, Err: err}
	}

	gpuLayers := 0
	if e.cfg.Settings != nil && e.cfg.Settings.GPUOffloadRequested() {
		log.Printf("[LOCAL] GPU acceleration enabled (%s), offloading %d layers", e.cfg.Settings.GPU(), gpuOffloadLayers)
		gpuLayers = gpuOffloadLayers
	}

	log.Printf("[LOCAL] loading model: %s", path)
	model, err := runtime(path, gpuLayers)
	if err != nil {
		return &aiprovider.ModelLoadError{Path: path, Err: err}
	}
	defer model.Close()

	// --- ContextReady ---
	formatted := formatPrompt(e.cfg.Provider, req.Prompt, req.Context)
	tokens, err := model.Tokenize(formatted)
	if err != nil {
		return &aiprovider.TokenizationError{Err: err}
	}
	log.Printf("[LOCAL] prompt tokenized: %d tokens (n_ctx=%d, n_batch=%d)", len(tokens), contextSize, batchSize)

	if len(tokens)+1 > contextSize {
		return &aiprovider.ContextError{Err: fmt.Errorf("prompt of %d tokens exceeds context window %d", len(tokens), contextSize)}
	}

	// --- Decoding ---
	if err := model.Decode(tokens, 0); err != nil {
		return &aiprovider.InferenceError{Err: err}
	}
	log.Printf("[LOCAL] initial decode completed, generating up to %d tokens", e.cfg.MaxTokens)

	allTokens := append([]Token(nil), tokens...)
	nCur := len(tokens)
	generated := 0
	emitted := 0
	var fullResponse strings.Builder

	for generated < e.cfg.MaxTokens {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		token, ok := sampleGreedy(model.Candidates(), recentWindow(allTokens))
		if !ok {
			log.Printf("[LOCAL] no candidate tokens available")
			break
		}

		generated++
		allTokens = append(allTokens, token)

		if model.IsEOG(token) {
			log.Printf("[LOCAL] end-of-generation token after %d tokens", generated)
			break
		}

		text, err := model.TokenText(token)
		if err != nil {
			// Undecodable token; keep the session going like any other
			// placeholder token.
			if generated <= 10 {
				log.Printf("[LOCAL] failed to decode token %d (id %d): %v", generated, token, err)
			}
		} else {
			fullResponse.WriteString(text)

			if stop, seq := containsStopSequence(fullResponse.String()); stop {
				log.Printf("[LOCAL] stop sequence %q detected, stopping", seq)
				break
			}

			// Skip empty and placeholder tokens; everything else streams out.
			if text != "" && text != "<unk>" && text != " <unk>" {
				emit.Text(text)
				emitted++
			}
		}

		if generated%50 == 0 {
			log.Printf("[LOCAL] progress: generated %d tokens, emitted %d chunks", generated, emitted)
		}

		if nCur+1 > contextSize {
			log.Printf("[LOCAL] context window exhausted at position %d", nCur)
			break
		}
		if err := model.Decode([]Token{token}, nCur); err != nil {
			return &aiprovider.InferenceError{Err: err}
		}
		nCur++
	}

	log.Printf("[LOCAL] inference completed: generated %d tokens, emitted %d chunks", generated, emitted)
	return nil
}

func (e *Engine) weightsPath() (string, error) {
	if e.cfg.WeightsPath != "" {
		return e.cfg.WeightsPath, nil
	}
	return localmodel.WeightsPath(e.cfg.Provider.String(), e.cfg.Settings)
}

// containsStopSequence reports whether the accumulated text contains any
// configured stop marker, and which one.
func containsStopSequence(text string) (bool, string) {
	for _, seq := range stopSequences {
		if strings.Contains(text, seq) {
			return true, seq
		}
	}
	return false, ""
}
