package aiprovider

import (
	"bytes"
	"strings"
)

// dataPrefix marks a server-sent event payload line.
const dataPrefix = "data: "

// EventStreamParser splits raw HTTP body chunks into SSE event payloads.
// It is protocol-agnostic: every complete line beginning with "data: " yields
// the remainder as a candidate payload, and everything else is skipped.
//
// Chunk boundaries are handled with a carry-over buffer: an unterminated
// trailing line is retained and prefixed to the next chunk, so a logical
// event line split across two network reads is never lost.
type EventStreamParser struct {
	carry   []byte
	dropped int
	onSkip  func(line string)
}

// NewEventStreamParser creates a parser for one response body.
// A parser is single-use and not safe for concurrent feeding.
func NewEventStreamParser() *EventStreamParser {
	return &EventStreamParser{}
}

// OnSkip installs a hook invoked with every dropped non-event line.
// Intended for debug logging and tests; nil disables the hook.
func (p *EventStreamParser) OnSkip(fn func(line string)) {
	p.onSkip = fn
}

// Feed consumes one body chunk and returns the complete event payloads it
// finished. Payloads are returned in arrival order.
func (p *EventStreamParser) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}

	buf := chunk
	if len(p.carry) > 0 {
		buf = append(p.carry, chunk...)
		p.carry = nil
	}

	var payloads []string
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := buf[:i]
		buf = buf[i+1:]
		if payload, ok := p.parseLine(line); ok {
			payloads = append(payloads, payload)
		}
	}

	// Retain the unterminated remainder for the next chunk.
	if len(buf) > 0 {
		p.carry = append([]byte(nil), buf...)
	}
	return payloads
}

// Close flushes a trailing payload that arrived without a final newline.
func (p *EventStreamParser) Close() []string {
	if len(p.carry) == 0 {
		return nil
	}
	line := p.carry
	p.carry = nil
	if payload, ok := p.parseLine(line); ok {
		return []string{payload}
	}
	return nil
}

// Dropped returns the number of non-empty lines skipped so far.
// SSE comment lines (":" prefix) and blank keep-alive lines do not count.
func (p *EventStreamParser) Dropped() int {
	return p.dropped
}

func (p *EventStreamParser) parseLine(raw []byte) (string, bool) {
	line := strings.TrimSuffix(string(raw), "\r")
	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}
	if strings.HasPrefix(line, dataPrefix) {
		return strings.TrimPrefix(line, dataPrefix), true
	}
	p.dropped++
	if p.onSkip != nil {
		p.onSkip(line)
	}
	return "", false
}
