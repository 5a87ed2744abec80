package openai

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// ChatCompletionChunk represents a streaming chunk from the chat completions
// endpoint.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice represents a choice in a streaming chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta represents incremental updates in a chunk.
type Delta struct {
	Role      *string         `json:"role,omitempty"`
	Content   *string         `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta is one fragment of a streamed tool call. ID is present only
// on the first fragment of a call; name and argument text arrive spread over
// subsequent fragments.
type ToolCallDelta struct {
	Index    int           `json:"index"`
	ID       string        `json:"id,omitempty"`
	Function FunctionDelta `json:"function"`
}

// FunctionDelta carries tool name/argument fragments.
type FunctionDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// streamEvents reads the SSE body chunk by chunk and emits stream events.
// A pending tool call is executed when finish_reason says so, and flushed at
// [DONE] if the stream ended exactly on the call.
func (p *Provider) streamEvents(body io.Reader, emit *aiprovider.Emitter) error {
	parser := aiprovider.NewEventStreamParser()
	var pending aiprovider.ToolCallBuffer
	decodeFailures := 0

	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)

		payloads := parser.Feed(buf[:n])
		if readErr == io.EOF {
			payloads = append(payloads, parser.Close()...)
		}

		for _, data := range payloads {
			// Termination marker is not JSON; check it first.
			if data == "[DONE]" {
				p.executePending(&pending, emit)
				return nil
			}

			var chunk ChatCompletionChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				// Best-effort decoding: skip unparseable chunks.
				decodeFailures++
				log.Printf("[OPENAI] skipping unparseable chunk (%d so far)", decodeFailures)
				continue
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]

			if choice.Delta.Content != nil {
				emit.Text(*choice.Delta.Content)
			}

			for _, call := range choice.Delta.ToolCalls {
				// A fresh id starts a new call, replacing any still-pending
				// one; only one call is assembled at a time.
				if call.ID != "" {
					pending.Begin(call.ID)
				}
				pending.AppendName(call.Function.Name)
				pending.AppendArgs(call.Function.Arguments)
			}

			if choice.FinishReason != nil && *choice.FinishReason == "tool_calls" {
				p.executePending(&pending, emit)
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("error reading stream: %w", readErr)
		}
	}
}

// executePending runs the assembled tool call, if any, and reports its
// outcome. Tool failures (including argument schema mismatches) are
// non-fatal to the text stream.
func (p *Provider) executePending(pending *aiprovider.ToolCallBuffer, emit *aiprovider.Emitter) {
	call, ok := pending.Take()
	if !ok {
		return
	}
	if p.executor == nil {
		log.Printf("[OPENAI] dropping tool call %s: no executor configured", call.Name)
		return
	}

	output, err := p.executor.Execute(call.Name, call.Args)
	if err != nil {
		log.Printf("[OPENAI] tool %s failed: %v", call.Name, err)
	}
	emit.Tool(aiprovider.ToolOutcome{Name: call.Name, Output: output, Err: err})
}
