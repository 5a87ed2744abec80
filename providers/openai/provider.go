// Package openai implements the streaming provider contract against OpenAI's
// chat completions API, including mid-stream tool invocation.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// systemPrompt steers the model toward the note tools instead of pasting
// rewritten note content into its text reply.
const systemPrompt = "You are a helpful AI assistant for a sticky note application.\n" +
	"CRITICAL INSTRUCTION: When the user asks to create, update, or delete a note, you MUST use the provided tools (`create_note`, `update_note`, `delete_note`).\n" +
	"DO NOT rewrite the note content in your text response. Only use the tool.\n" +
	"If you use a tool, your text response should be empty or a very brief confirmation (e.g. 'Done').\n" +
	"Only output long text if you are answering a general question without modifying a note."

// Provider implements the aiprovider.Provider interface for OpenAI.
type Provider struct {
	creds      aiprovider.CredentialSource
	models     aiprovider.ModelSource
	executor   aiprovider.ToolExecutor
	tools      []aiprovider.Tool
	httpClient *http.Client
	baseURL    string
}

// NewProvider creates an OpenAI provider. The executor runs tool calls the
// model issues mid-stream; tools is the schema set offered to the model.
func NewProvider(creds aiprovider.CredentialSource, models aiprovider.ModelSource, executor aiprovider.ToolExecutor, tools []aiprovider.Tool) *Provider {
	return &Provider{
		creds:      creds,
		models:     models,
		executor:   executor,
		tools:      tools,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    "https://api.openai.com/v1",
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() aiprovider.ProviderID {
	return aiprovider.ProviderOpenAI
}

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model    string            `json:"model"`
	Messages []chatMessage     `json:"messages"`
	Tools    []aiprovider.Tool `json:"tools,omitempty"`
	Stream   bool              `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamResponse issues a streaming chat completion and decodes it.
func (p *Provider) StreamResponse(ctx context.Context, req *aiprovider.InvokeRequest) (<-chan aiprovider.StreamEvent, error) {
	apiKey, err := p.creds.APIKey(p.Name().String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", aiprovider.ErrNoAPIKey, p.Name())
	}

	body := chatRequest{
		Model: p.models.ProviderModel(p.Name().String()),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Context (current card content):\n%s\n\nUser request: %s", req.Context, req.Prompt)},
		},
		Tools:  p.tools,
		Stream: true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, &aiprovider.APIError{Provider: p.Name().String(), StatusCode: resp.StatusCode, Body: string(raw)}
	}

	events := make(chan aiprovider.StreamEvent, 10)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		emit := aiprovider.NewEmitter(events)
		if err := p.streamEvents(resp.Body, emit); err != nil {
			emit.Fail(err)
		}
		emit.Finish()
	}()

	return events, nil
}
