// Package anthropic implements the streaming provider contract against
// Anthropic's messages API.
package anthropic

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

const (
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
)

// Provider implements the aiprovider.Provider interface for Anthropic.
type Provider struct {
	creds      aiprovider.CredentialSource
	models     aiprovider.ModelSource
	httpClient *http.Client
	baseURL    string
}

// NewProvider creates an Anthropic provider.
func NewProvider(creds aiprovider.CredentialSource, models aiprovider.ModelSource) *Provider {
	return &Provider{
		creds:      creds,
		models:     models,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    "https://api.anthropic.com/v1",
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() aiprovider.ProviderID {
	return aiprovider.ProviderAnthropic
}

// messagesRequest is the messages API request body.
type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []messageContent `json:"messages"`
	Stream    bool             `json:"stream"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamResponse issues a streaming messages request and decodes it.
func (p *Provider) StreamResponse(ctx context.Context, req *aiprovider.InvokeRequest) (<-chan aiprovider.StreamEvent, error) {
	apiKey, err := p.creds.APIKey(p.Name().String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", aiprovider.ErrNoAPIKey, p.Name())
	}

	body := messagesRequest{
		Model:     p.models.ProviderModel(p.Name().String()),
		MaxTokens: defaultMaxTokens,
		Messages: []messageContent{
			{Role: "user", Content: fmt.Sprintf("Context (current card content):\n%s\n\nUser request: %s", req.Context, req.Prompt)},
		},
		Stream: true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic HTTP request failed: %w", err)
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
		if err := streamEvents(resp.Body, emit); err != nil {
			emit.Fail(err)
		}
		emit.Finish()
	}()

	return events, nil
}
