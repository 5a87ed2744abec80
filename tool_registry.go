package aiprovider

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/hexnote/hexnote-ai-go/notes"
)

// ToolFunc executes one tool call against note storage.
type ToolFunc func(store notes.Store, argsJSON string) (string, error)

// ToolDefinition pairs a tool's wire schema with its implementation.
type ToolDefinition struct {
	Tool Tool
	Run  ToolFunc
}

// Registry holds the tools a provider may offer to the model.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]ToolDefinition
	order []string
}

// NewRegistry creates a registry pre-populated with the note tools.
func NewRegistry() *Registry {
	r := &Registry{tools: make(map[string]ToolDefinition)}
	r.registerBuiltInTools()
	return r
}

func (r *Registry) registerBuiltInTools() {
	_ = r.Register(ToolDefinition{Tool: NewCreateNoteTool(), Run: runCreateNote})
	_ = r.Register(ToolDefinition{Tool: NewUpdateNoteTool(), Run: runUpdateNote})
	_ = r.Register(ToolDefinition{Tool: NewDeleteNoteTool(), Run: runDeleteNote})
	_ = r.Register(ToolDefinition{Tool: NewListNotesTool(), Run: runListNotes})
}

// Register adds a tool definition to the registry.
func (r *Registry) Register(def ToolDefinition) error {
	if err := def.Tool.Validate(); err != nil {
		return err
	}
	if def.Run == nil {
		return fmt.Errorf("run function is required for tool %s", def.Tool.Function.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := def.Tool.Function.Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s is already registered", name)
	}
	r.tools[name] = def
	r.order = append(r.order, name)
	return nil
}

// Definitions returns the wire schemas of all registered tools in
// registration order, ready to embed in a provider request.
func (r *Registry) Definitions() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Tool)
	}
	return defs
}

// Get retrieves a tool definition by name.
func (r *Registry) Get(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.tools[name]
	return def, ok
}

// Executor binds a registry to a note store, satisfying ToolExecutor.
type Executor struct {
	registry *Registry
	store    notes.Store
}

// NewExecutor creates an executor over the given store.
func NewExecutor(registry *Registry, store notes.Store) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Executor{registry: registry, store: store}
}

// Registry returns the executor's tool registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute runs a tool call and returns its textual result.
// An unknown name or a schema mismatch yields a *ToolArgumentError; the
// caller reports it on the stream without aborting.
func (e *Executor) Execute(name, argsJSON string) (string, error) {
	def, ok := e.registry.Get(name)
	if !ok {
		return "", &ToolArgumentError{Tool: name, Args: argsJSON, Err: fmt.Errorf("unknown tool: %s", name)}
	}
	return def.Run(e.store, argsJSON)
}

type createNoteArgs struct {
	Content string `json:"content"`
}

type updateNoteArgs struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type deleteNoteArgs struct {
	ID string `json:"id"`
}

func runCreateNote(store notes.Store, argsJSON string) (string, error) {
	var args createNoteArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", &ToolArgumentError{Tool: ToolCreateNote, Args: argsJSON, Err: err}
	}

	note, err := store.Create(args.Content)
	if err != nil {
		return "", fmt.Errorf("failed to create note: %w", err)
	}
	return fmt.Sprintf("Note created successfully. ID: %s", note.ID), nil
}

func runUpdateNote(store notes.Store, argsJSON string) (string, error) {
	var args updateNoteArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", &ToolArgumentError{Tool: ToolUpdateNote, Args: argsJSON, Err: err}
	}

	if _, err := store.Update(args.ID, args.Content); err != nil {
		return "", fmt.Errorf("failed to update note: %w", err)
	}
	return fmt.Sprintf("Note %s updated successfully.", args.ID), nil
}

func runDeleteNote(store notes.Store, argsJSON string) (string, error) {
	var args deleteNoteArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", &ToolArgumentError{Tool: ToolDeleteNote, Args: argsJSON, Err: err}
	}

	if err := store.Delete(args.ID); err != nil {
		return "", fmt.Errorf("failed to delete note: %w", err)
	}
	return fmt.Sprintf("Note %s deleted successfully.", args.ID), nil
}

func runListNotes(store notes.Store, _ string) (string, error) {
	all, err := store.List()
	if err != nil {
		return "", fmt.Errorf("failed to list notes: %w", err)
	}

	// Concise preview list for the model, not a full dump.
	var sb strings.Builder
	sb.WriteString("Current Notes:\n")
	if len(all) == 0 {
		sb.WriteString("(No notes found)")
		return sb.String(), nil
	}
	for _, note := range all {
		preview := strings.ReplaceAll(note.Content, "\n", " ")
		if len(preview) > 100 {
			preview = preview[:100]
		}
		fmt.Fprintf(&sb, "- ID: %s\n  Content (preview): %s...\n", note.ID, preview)
	}
	return sb.String(), nil
}
