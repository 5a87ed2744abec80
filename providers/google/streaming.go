package google

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	aiprovider "github.com/hexnote/hexnote-ai-go"
)

// streamChunk is one decoded event from the streamGenerateContent SSE body.
type streamChunk struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	FinishReason *string `json:"finishReason"`
}

// streamEvents reads the SSE body and emits text fragments. A non-null
// finishReason on the first candidate is the terminal signal.
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
			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				// Best-effort decoding: skip unparseable events.
				decodeFailures++
				log.Printf("[GOOGLE] skipping unparseable event (%d so far)", decodeFailures)
				continue
			}
			if len(chunk.Candidates) == 0 {
				continue
			}

			first := chunk.Candidates[0]
			if len(first.Content.Parts) > 0 {
				emit.Text(first.Content.Parts[0].Text)
			}
			if first.FinishReason != nil {
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
