package aiprovider

import (
	"errors"
	"fmt"
)

// Note tool names. These are the operations the model may invoke mid-stream.
const (
	ToolCreateNote = "create_note"
	ToolUpdateNote = "update_note"
	ToolDeleteNote = "delete_note"
	ToolListNotes  = "list_notes"
)

// FunctionDetails represents the function definition within a tool (OpenAI
// format). This is the universal wire format; providers that need another
// shape convert from it.
type FunctionDetails struct {
	Name        string                 `json:"name"`                  // Function name (required)
	Description string                 `json:"description,omitempty"` // What the function does
	Parameters  map[string]interface{} `json:"parameters"`            // JSON Schema for parameters
}

// Tool represents a function tool (OpenAI universal format).
type Tool struct {
	Type     string          `json:"type"`     // Always "function" for function tools
	Function FunctionDetails `json:"function"` // Function definition
}

// Validate checks if the Tool is properly configured
func (t *Tool) Validate() error {
	if t.Type == "" {
		return errors.New("tool type is required")
	}
	if t.Type != "function" {
		return fmt.Errorf("unsupported tool type: %s (only 'function' is supported)", t.Type)
	}
	if t.Function.Name == "" {
		return errors.New("function name is required")
	}
	if t.Function.Parameters == nil {
		return errors.New("function parameters are required")
	}
	return nil
}

// NewCreateNoteTool returns the create_note tool definition.
func NewCreateNoteTool() Tool {
	return Tool{
		Type: "function",
		Function: FunctionDetails{
			Name:        ToolCreateNote,
			Description: "Create a new sticky note card with the given content.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The markdown content of the new note.",
					},
				},
				"required": []string{"content"},
			},
		},
	}
}

// NewUpdateNoteTool returns the update_note tool definition.
func NewUpdateNoteTool() Tool {
	return Tool{
		Type: "function",
		Function: FunctionDetails{
			Name:        ToolUpdateNote,
			Description: "Update the content of an existing note card.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "The UUID of the note to update.",
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The new markdown content.",
					},
				},
				"required": []string{"id", "content"},
			},
		},
	}
}

// NewDeleteNoteTool returns the delete_note tool definition.
func NewDeleteNoteTool() Tool {
	return Tool{
		Type: "function",
		Function: FunctionDetails{
			Name:        ToolDeleteNote,
			Description: "Delete a note card permanently.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "The UUID of the note to delete.",
					},
				},
				"required": []string{"id"},
			},
		},
	}
}

// NewListNotesTool returns the list_notes tool definition.
func NewListNotesTool() Tool {
	return Tool{
		Type: "function",
		Function: FunctionDetails{
			Name:        ToolListNotes,
			Description: "Get a list of all existing notes (id, content, timestamps).",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
	}
}

// AllNoteTools returns the full tool set sent to tool-capable providers.
func AllNoteTools() []Tool {
	return []Tool{
		NewCreateNoteTool(),
		NewUpdateNoteTool(),
		NewDeleteNoteTool(),
		NewListNotesTool(),
	}
}
