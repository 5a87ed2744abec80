// Package google implements the streaming provider contract against the
// Gemini streamGenerateContent API.
package google

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

// editorPrompt makes Gemini behave as a text editor. There is no separate
// system role on this endpoint, so the instruction rides in the single part.
const editorPrompt = "SYSTEM: You are a text editor. Your goal is to update the note content based on the user request. " +
	"Output ONLY the full updated note content. Do not output conversational text."

// Provider implements the aiprovider.Provider interface for Google Gemini.
type Provider struct {
	creds      aiprovider.CredentialSource
	models     aiprovider.ModelSource
	httpClient *http.Client
	baseURL    string
}

// NewProvider creates a Google provider.
func NewProvider(creds aiprovider.CredentialSource, models aiprovider.ModelSource) *Provider {
	return &Provider{
		creds:      creds,
		models:     models,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() aiprovider.ProviderID {
	return aiprovider.ProviderGoogle
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// StreamResponse issues a streaming generateContent request and decodes it.
func (p *Provider) StreamResponse(ctx context.Context, req *aiprovider.InvokeRequest) (<-chan aiprovider.StreamEvent, error) {
	apiKey, err := p.creds.APIKey(p.Name().String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", aiprovider.ErrNoAPIKey, p.Name())
	}

	model := p.models.ProviderModel(p.Name().String())
	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?key=%s&alt=sse", p.baseURL, model, apiKey)

	body := generateRequest{
		Contents: []content{{
			Parts: []part{{
				Text: fmt.Sprintf("%s\n\nContext (current content):\n%s\n\nUser request: %s", editorPrompt, req.Context, req.Prompt),
			}},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google HTTP request failed: %w", err)
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
