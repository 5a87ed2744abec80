package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

type staticCreds map[string]string

func (c staticCreds) APIKey(provider string) (string, error) {
	key, ok := c[provider]
	if !ok {
		return "", fmt.Errorf("no key for %s", provider)
	}
	return key, nil
}

type staticModels map[string]string

func (m staticModels) ProviderModel(provider string) string { return m[provider] }

func newTestProvider(baseURL string) *Provider {
	p := NewProvider(staticCreds{"google": "gk-test"}, staticModels{"google": "gemini-3.1-pro-latest"})
	p.baseURL = baseURL
	return p
}

func drain(t *testing.T, events <-chan aiprovider.StreamEvent) []aiprovider.StreamEvent {
	t.Helper()
	var out []aiprovider.StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out draining stream")
		}
	}
}

func TestStreamResponseText(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hello\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\" world\"}]},\"finishReason\":\"STOP\"}]}\n\n")
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	events, err := p.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "say hello", Context: "my note"})
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 3)
	assert.Equal(t, "Hello", got[0].Chunk.Chunk)
	assert.Equal(t, " world", got[1].Chunk.Chunk)
	assert.True(t, got[2].Chunk.Done)

	assert.Equal(t, "/models/gemini-3.1-pro-latest:streamGenerateContent", gotPath)
	assert.Contains(t, gotQuery, "key=gk-test")
	assert.Contains(t, gotQuery, "alt=sse")

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	text := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, text, "SYSTEM: You are a text editor.")
	assert.Contains(t, text, "my note")
	assert.Contains(t, text, "User request: say hello")
}

func TestStreamResponseStopsAtFinishReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"kept\"}]},\"finishReason\":\"STOP\"}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"dropped\"}]}}]}\n\n")
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	events, err := p.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "x"})
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, "kept", got[0].Chunk.Chunk)
	assert.True(t, got[1].Chunk.Done)
}

func TestStreamResponseSkipsEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[]}\n\n")
		fmt.Fprint(w, "data: not even json\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]},\"finishReason\":\"STOP\"}]}\n\n")
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	events, err := p.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "x"})
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].Chunk.Chunk)
	assert.True(t, got[1].Chunk.Done)
}

func TestStreamResponseAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "x"})

	var apiErr *aiprovider.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "google", apiErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestStreamResponseNoAPIKey(t *testing.T) {
	p := NewProvider(staticCreds{}, staticModels{})
	_, err := p.StreamResponse(context.Background(), &aiprovider.InvokeRequest{Prompt: "x"})
	assert.ErrorIs(t, err, aiprovider.ErrNoAPIKey)
}
