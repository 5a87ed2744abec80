package aiprovider

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Router holds the active provider selection and dispatches invocations to
// the matching backend. The selection is the only cross-invocation mutable
// state; it is guarded by a single-writer/many-reader lock and read once at
// invocation start.
type Router struct {
	mu        sync.RWMutex
	active    ProviderID
	hasActive bool

	providers map[ProviderID]Provider
	creds     CredentialSource
	statePath string

	// busy rejects a second Invoke while one stream is still open, so two
	// generations can never interleave their terminal events.
	busy atomic.Bool
}

// RouterOptions configures a Router.
type RouterOptions struct {
	// Credentials is consulted when restoring a persisted selection and
	// before dispatching to a cloud provider.
	Credentials CredentialSource

	// StatePath is the file the active selection is persisted to.
	// Empty selects <user config dir>/hexnote/active_provider.txt.
	StatePath string
}

// NewRouter creates a router and restores the persisted provider selection.
// A persisted cloud provider whose credential has disappeared is discarded.
func NewRouter(opts RouterOptions) *Router {
	r := &Router{
		providers: make(map[ProviderID]Provider),
		creds:     opts.Credentials,
		statePath: opts.StatePath,
	}
	if r.statePath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			r.statePath = filepath.Join(dir, "hexnote", "active_provider.txt")
		}
	}
	r.restoreActiveProvider()
	return r
}

// Register adds a backend. Registering twice for one ID replaces the first.
func (r *Router) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// SetActiveProvider selects the backend for subsequent invocations and
// persists the choice.
func (r *Router) SetActiveProvider(id ProviderID) error {
	if !id.IsValid() {
		return &UnsupportedProviderError{Provider: id.String()}
	}

	r.mu.Lock()
	r.active = id
	r.hasActive = true
	r.mu.Unlock()

	if err := r.saveActiveProvider(id); err != nil {
		log.Printf("[ROUTER] failed to persist active provider: %v", err)
	}
	log.Printf("[ROUTER] active provider set to: %s", id)
	return nil
}

// ActiveProvider returns the current selection, if any.
func (r *Router) ActiveProvider() (ProviderID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active, r.hasActive
}

// Invoke routes one generation turn to the active provider and returns its
// event stream. Exactly one invocation may be in flight at a time; a second
// call is rejected with ErrInvocationInFlight while the first stream is open.
func (r *Router) Invoke(ctx context.Context, prompt, docContext string) (<-chan StreamEvent, error) {
	active, ok := r.ActiveProvider()
	if !ok {
		return nil, ErrNoActiveProvider
	}

	r.mu.RLock()
	provider, registered := r.providers[active]
	r.mu.RUnlock()
	if !registered {
		return nil, &UnsupportedProviderError{Provider: active.String()}
	}

	// Cloud providers re-check the key themselves at request time; failing
	// here keeps the NoAPIKey error synchronous, before any stream starts.
	if active.RequiresAPIKey() && r.creds != nil {
		if _, err := r.creds.APIKey(active.String()); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, active)
		}
	}

	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrInvocationInFlight
	}

	events, err := provider.StreamResponse(ctx, &InvokeRequest{Prompt: prompt, Context: docContext})
	if err != nil {
		r.busy.Store(false)
		return nil, err
	}

	// Forward the stream and release the in-flight slot when it closes.
	out := make(chan StreamEvent, 10)
	go func() {
		defer close(out)
		defer r.busy.Store(false)
		for event := range events {
			out <- event
		}
	}()
	return out, nil
}

func (r *Router) restoreActiveProvider() {
	if r.statePath == "" {
		return
	}
	raw, err := os.ReadFile(r.statePath)
	if err != nil {
		return
	}

	id, err := ParseProviderID(strings.TrimSpace(string(raw)))
	if err != nil {
		log.Printf("[ROUTER] ignoring persisted provider: %v", err)
		return
	}

	if id.RequiresAPIKey() && r.creds != nil {
		if _, err := r.creds.APIKey(id.String()); err != nil {
			log.Printf("[ROUTER] persisted provider %s has no API key configured", id)
			return
		}
	}

	r.active = id
	r.hasActive = true
	log.Printf("[ROUTER] restored active provider: %s", id)
}

func (r *Router) saveActiveProvider(id ProviderID) error {
	if r.statePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.statePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.statePath, []byte(id.String()), 0o644)
}
