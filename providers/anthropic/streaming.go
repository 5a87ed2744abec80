package anthropic

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// streamEvent is a typed event from the messages stream. The type field
// selects the payload shape; everything except text deltas and the stop
// marker is ignored.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

// streamEvents reads the SSE body and emits text fragments until the
// message_stop event (or EOF) ends the stream.
func streamEvents(body io.Reader, emit *aiprovider.Emitter) error {
	parser := aiprovider.NewEventStreamParser()
	decodeFailures := 0

	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)

		payloads := parser.Feed(buf[:n])
		if readErr == io.EOF {
			payloads = append(payloads, parser.Close()...)
		}

		for _, data := range payloads {
			var event streamEvent
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				// Best-effort decoding: skip unparseable events.
				decodeFailures++
				log.Printf("[ANTHROPIC] skipping unparseable event (%d so far)", decodeFailures)
				continue
			}

			switch event.Type {
			case "content_block_delta":
				emit.Text(event.Delta.Text)
			case "message_stop":
				return nil
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
