package local

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aiprovider "github.com/hexnote/hexnote-ai-go"
	"github.com/hexnote/hexnote-ai-go/localmodel"
)

// fakeModel plays back a scripted token sequence: Candidates hands the next
// scripted token the top logit, and an exhausted script yields no candidates.
type fakeModel struct {
	prompt  []Token
	script  []Token
	texts   map[Token]string
	eog     map[Token]bool
	next    int
	decodes int
	closed  bool
}

func (m *fakeModel) Tokenize(text string) ([]Token, error) {
	if len(m.prompt) == 0 {
		return []Token{1, 2, 3}, nil
	}
	return m.prompt, nil
}

func (m *fakeModel) Decode(tokens []Token, pos int) error {
	m.decodes++
	return nil
}

func (m *fakeModel) Candidates() []Candidate {
	if m.next >= len(m.script) {
		return nil
	}
	token := m.script[m.next]
	m.next++
	return []Candidate{
		{Token: token, Logit: 10},
		{Token: 9999, Logit: 1},
	}
}

func (m *fakeModel) TokenText(t Token) (string, error) {
	text, ok := m.texts[t]
	if !ok {
		return "", fmt.Errorf("no text for token %d", t)
	}
	return text, nil
}

func (m *fakeModel) IsEOG(t Token) bool { return m.eog[t] }

func (m *fakeModel) Close() error {
	m.closed = true
	return nil
}

// writeWeights creates a file with a valid GGUF header.
func writeWeights(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.gguf")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, binary.Write(f, binary.LittleEndian, [4]byte{'G', 'G', 'U', 'F'}))
	require.NoError(t, binary.Write(f, binary.LittleEndian, uint32(3)))
	require.NoError(t, binary.Write(f, binary.LittleEndian, uint64(1)))
	require.NoError(t, binary.Write(f, binary.LittleEndian, uint64(1)))
	return path
}

func runtimeFor(model Model) Runtime {
	return func(path string, gpuLayers int) (Model, error) {
		return model, nil
	}
}

// collect drains a stream into text fragments, terminal count, and errors.
func collect(t *testing.T, events <-chan aiprovider.StreamEvent) (fragments []string, terminals int, errs []error) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Error != nil {
				errs = append(errs, ev.Error)
			}
			if ev.Chunk != nil {
				if ev.Chunk.Done {
					terminals++
				} else {
					fragments = append(fragments, ev.Chunk.Chunk)
				}
			}
		case <-timeout:
			t.Fatal("timed out draining stream")
		}
	}
}

func TestStreamResponseTokenBudget(t *testing.T) {
	model := &fakeModel{
		script: []Token{10, 11, 12, 13, 14},
		texts:  map[Token]string{10: "Hel", 11: "lo", 12: " maailma", 13: "!", 14: "!"},
	}
	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderPoro2,
		Runtime:     runtimeFor(model),
		MaxTokens:   3,
		WeightsPath: writeWeights(t),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	fragments, terminals, errs := collect(t, events)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Hel", "lo", " maailma"}, fragments, "budget counts generated tokens")
	assert.Equal(t, 1, terminals)
	assert.True(t, model.closed)
}

func TestStreamResponseStopsOnEOG(t *testing.T) {
	model := &fakeModel{
		script: []Token{10, 20, 11},
		texts:  map[Token]string{10: "valmis", 11: "never"},
		eog:    map[Token]bool{20: true},
	}
	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderFinChat,
		Runtime:     runtimeFor(model),
		WeightsPath: writeWeights(t),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	fragments, terminals, errs := collect(t, events)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"valmis"}, fragments)
	assert.Equal(t, 1, terminals)
}

func TestStreamResponseStopSequence(t *testing.T) {
	model := &fakeModel{
		script: []Token{10, 11, 12, 13},
		texts:  map[Token]string{10: "Vastaus on ", 11: "42", 12: "\nKysymys:", 13: " entä muuta"},
	}
	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderFinChat,
		Runtime:     runtimeFor(model),
		WeightsPath: writeWeights(t),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	fragments, terminals, errs := collect(t, events)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"Vastaus on ", "42"}, fragments, "the fragment carrying the stop marker is withheld")
	assert.Equal(t, 1, terminals)
}

func TestStreamResponseSkipsPlaceholderTokens(t *testing.T) {
	model := &fakeModel{
		script: []Token{10, 11, 12},
		texts:  map[Token]string{10: "alku", 11: "<unk>", 12: " loppu"},
	}
	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderPoro2,
		Runtime:     runtimeFor(model),
		WeightsPath: writeWeights(t),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	fragments, _, errs := collect(t, events)
	assert.Empty(t, errs)
	assert.Equal(t, []string{"alku", " loppu"}, fragments)
}

func TestStreamResponseModelNotDownloaded(t *testing.T) {
	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderPoro2,
		Runtime:     runtimeFor(&fakeModel{}),
		WeightsPath: filepath.Join(t.TempDir(), "absent.gguf"),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	fragments, terminals, errs := collect(t, events)
	assert.Empty(t, fragments)
	assert.Equal(t, 1, terminals, "terminal chunk still arrives on failure")
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], aiprovider.ErrModelNotDownloaded)
}

func TestStreamResponseRejectsCorruptWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gguf")
	require.NoError(t, os.WriteFile(path, []byte("not a gguf file, just filler text"), 0o644))

	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderPoro2,
		Runtime:     runtimeFor(&fakeModel{}),
		WeightsPath: path,
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	_, _, errs := collect(t, events)
	require.Len(t, errs, 1)
	var loadErr *aiprovider.ModelLoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.ErrorIs(t, errs[0], localmodel.ErrNotGGUF)
}

func TestStreamResponseRuntimeFailure(t *testing.T) {
	engine := NewEngine(Config{
		Provider: aiprovider.ProviderPoro2,
		Runtime: func(path string, gpuLayers int) (Model, error) {
			return nil, fmt.Errorf("backend exploded")
		},
		WeightsPath: writeWeights(t),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	_, terminals, errs := collect(t, events)
	require.Len(t, errs, 1)
	var loadErr *aiprovider.ModelLoadError
	assert.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, 1, terminals)
}

func TestStreamResponseNoBackendRegistered(t *testing.T) {
	InitBackend(nil)

	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderPoro2,
		WeightsPath: writeWeights(t),
	})

	events, err := engine.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	_, terminals, errs := collect(t, events)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], aiprovider.ErrBackendNotInitialized)
	assert.Equal(t, 1, terminals)
}

func TestStreamResponseContextCancelled(t *testing.T) {
	model := &fakeModel{
		script: []Token{10, 11},
		texts:  map[Token]string{10: "a", 11: "b"},
	}
	engine := NewEngine(Config{
		Provider:    aiprovider.ProviderPoro2,
		Runtime:     runtimeFor(model),
		WeightsPath: writeWeights(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, err := engine.StreamResponse(ctx, &aiprovider.InvokeRequest{Prompt: "moi"})
	require.NoError(t, err)

	fragments, terminals, errs := collect(t, events)
	assert.Empty(t, fragments)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Equal(t, 1, terminals)
}
