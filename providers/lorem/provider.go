// Package lorem is a mock provider that generates lorem ipsum text.
// Used for testing and development without API keys or downloaded models.
package lorem

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// Provider streams lorem ipsum word by word. Pacing is controlled by the
// configured model name (lorem-slow, lorem-medium, lorem-fast).
type Provider struct {
	generator *loremgen.Lorem
	models    aiprovider.ModelSource
	executor  aiprovider.ToolExecutor
}

// NewProvider creates a lorem provider. A nil executor disables the scripted
// tool call; a nil models source falls back to lorem-medium pacing.
func NewProvider(models aiprovider.ModelSource, executor aiprovider.ToolExecutor) *Provider {
	return &Provider{
		generator: loremgen.New(),
		models:    models,
		executor:  executor,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() aiprovider.ProviderID {
	return aiprovider.ProviderLorem
}

// getStreamDelay returns the delay between words based on the model name.
// - lorem-slow: 2 words/second
// - lorem-fast: 30 words/second
// - lorem-medium and anything else: 10 words/second
func getStreamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// wantsNoteTool is a crude intent check standing in for real tool selection.
func wantsNoteTool(prompt string) bool {
	lower := strings.ToLower(prompt)
	return strings.Contains(lower, "create") && strings.Contains(lower, "note")
}

// StreamResponse streams a mock response. When an executor is configured and
// the prompt asks to create a note, a scripted create_note call exercises the
// tool path end to end without any network access.
func (p *Provider) StreamResponse(ctx context.Context, req *aiprovider.InvokeRequest) (<-chan aiprovider.StreamEvent, error) {
	model := "lorem-medium"
	if p.models != nil {
		if m := p.models.ProviderModel(p.Name().String()); m != "" {
			model = m
		}
	}
	delay := getStreamDelay(model)

	events := make(chan aiprovider.StreamEvent, 10)
	go func() {
		defer close(events)

		emit := aiprovider.NewEmitter(events)
		defer emit.Finish()

		if p.executor != nil && wantsNoteTool(req.Prompt) {
			args, err := json.Marshal(map[string]string{
				"content": p.generator.Sentence(5, 10),
			})
			if err != nil {
				emit.Fail(err)
				return
			}
			output, execErr := p.executor.Execute(aiprovider.ToolCreateNote, string(args))
			emit.Tool(aiprovider.ToolOutcome{Name: aiprovider.ToolCreateNote, Output: output, Err: execErr})
			emit.Text("Done.")
			return
		}

		words := strings.Fields(p.generator.Paragraph(2, 4))
		for i, word := range words {
			select {
			case <-ctx.Done():
				emit.Fail(ctx.Err())
				return
			default:
			}

			chunk := word
			if i < len(words)-1 {
				chunk += " "
			}
			emit.Text(chunk)
			time.Sleep(delay)
		}
	}()

	return events, nil
}
