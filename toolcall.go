package aiprovider

import "strings"

// ToolCall is a fully assembled tool invocation.
type ToolCall struct {
	ID   string // Provider-assigned call identifier
	Name string // Tool name (e.g. "create_note")
	Args string // Raw argument JSON accumulated from the stream
}

// ToolCallBuffer reassembles one tool invocation from fragmented stream
// deltas. OpenAI-style streams send the call id once, then name and argument
// text spread over several events.
//
// Only one pending call is tracked at a time: a turn with multiple
// simultaneous tool calls would need a slot per stream call index, which the
// providers this was built against do not emit.
type ToolCallBuffer struct {
	id      string
	name    strings.Builder
	args    strings.Builder
	pending bool
}

// Begin starts assembling a new call, replacing any still-pending one.
func (b *ToolCallBuffer) Begin(id string) {
	b.id = id
	b.name.Reset()
	b.args.Reset()
	b.pending = true
}

// AppendName appends a fragment of the tool name.
func (b *ToolCallBuffer) AppendName(s string) {
	if b.pending {
		b.name.WriteString(s)
	}
}

// AppendArgs appends a fragment of the argument JSON text.
func (b *ToolCallBuffer) AppendArgs(s string) {
	if b.pending {
		b.args.WriteString(s)
	}
}

// Pending reports whether a call is currently being assembled.
func (b *ToolCallBuffer) Pending() bool {
	return b.pending
}

// Take returns the assembled call and clears the pending state.
// Returns false if no call was in progress.
func (b *ToolCallBuffer) Take() (ToolCall, bool) {
	if !b.pending {
		return ToolCall{}, false
	}
	call := ToolCall{
		ID:   b.id,
		Name: b.name.String(),
		Args: b.args.String(),
	}
	b.id = ""
	b.name.Reset()
	b.args.Reset()
	b.pending = false
	return call, true
}
