package aiprovider

// StreamEvent represents a single event in a streaming response.
// Each event carries exactly one of: a text chunk, a tool outcome, a refresh
// signal, or an error.
type StreamEvent struct {
	// Chunk contains an incremental text fragment, or the terminal marker
	// (empty chunk with Done=true). Nil if this event is a tool/refresh/error.
	Chunk *TextChunk

	// Tool contains the outcome of an executed tool call. Tool outcomes are
	// never fatal: a ToolArgumentError here does not end the stream.
	Tool *ToolOutcome

	// Refresh is true when a tool call successfully mutated note storage and
	// a UI should reload its data.
	Refresh bool

	// Error contains a fatal error. The stream still delivers exactly one
	// terminal chunk after an error event, so consumers can rely on a single
	// end-of-stream signal either way.
	Error error
}

// TextChunk is one incremental piece of generated text.
// A stream delivers zero or more chunks with Done=false, then exactly one
// terminal chunk {Chunk:"", Done:true}, even on early termination.
type TextChunk struct {
	Chunk string `json:"chunk"`
	Done  bool   `json:"done"`
}

// ToolOutcome reports the result of one executed tool call.
type ToolOutcome struct {
	// Name is the tool that was invoked (e.g. "create_note")
	Name string

	// Output is the textual result returned by the tool on success
	Output string

	// Err is the execution failure, if any. A *ToolArgumentError means the
	// model produced arguments that do not match the tool's schema.
	Err error
}

// Emitter serializes stream delivery for one invocation and guarantees the
// exactly-one-terminal-chunk invariant.
type Emitter struct {
	events chan<- StreamEvent
	closed bool
}

func NewEmitter(events chan<- StreamEvent) *Emitter {
	return &Emitter{events: events}
}

// Text sends one non-terminal fragment. Empty fragments are dropped so the
// empty string stays reserved for the terminal marker.
func (e *Emitter) Text(fragment string) {
	if e.closed || fragment == "" {
		return
	}
	e.events <- StreamEvent{Chunk: &TextChunk{Chunk: fragment}}
}

// Tool reports a tool outcome and, on success, the refresh signal.
func (e *Emitter) Tool(outcome ToolOutcome) {
	if e.closed {
		return
	}
	e.events <- StreamEvent{Tool: &outcome}
	if outcome.Err == nil {
		e.events <- StreamEvent{Refresh: true}
	}
}

// Fail reports a fatal error. The terminal chunk still follows via Finish.
func (e *Emitter) Fail(err error) {
	if e.closed || err == nil {
		return
	}
	e.events <- StreamEvent{Error: err}
}

// Finish sends the terminal chunk. Safe to call more than once; only the
// first call emits.
func (e *Emitter) Finish() {
	if e.closed {
		return
	}
	e.closed = true
	e.events <- StreamEvent{Chunk: &TextChunk{Done: true}}
}
