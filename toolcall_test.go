package aiprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolCallBufferReassemblesFragments(t *testing.T) {
	var b ToolCallBuffer

	b.Begin("c1")
	b.AppendName("create_")
	b.AppendName("note")
	b.AppendArgs(`{"content":`)
	b.AppendArgs(`"hi"}`)

	require.True(t, b.Pending())
	call, ok := b.Take()
	require.True(t, ok)
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, "create_note", call.Name)
	assert.Equal(t, `{"content":"hi"}`, call.Args)

	// Take clears the slot.
	assert.False(t, b.Pending())
	_, ok = b.Take()
	assert.False(t, ok)
}

func TestToolCallBufferBeginReplacesPending(t *testing.T) {
	var b ToolCallBuffer

	b.Begin("c1")
	b.AppendName("old_tool")
	b.AppendArgs(`{"stale":true}`)

	b.Begin("c2")
	b.AppendName("list_notes")
	b.AppendArgs("{}")

	call, ok := b.Take()
	require.True(t, ok)
	assert.Equal(t, "c2", call.ID)
	assert.Equal(t, "list_notes", call.Name)
	assert.Equal(t, "{}", call.Args)
}

func TestToolCallBufferIgnoresFragmentsBeforeBegin(t *testing.T) {
	var b ToolCallBuffer

	b.AppendName("orphan")
	b.AppendArgs(`{"ignored":true}`)
	assert.False(t, b.Pending())

	b.Begin("c1")
	call, ok := b.Take()
	require.True(t, ok)
	assert.Empty(t, call.Name)
	assert.Empty(t, call.Args)
}
