package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsxkib/slack-mcp-server/internal/memory"
)

func TestListMemoryNotesUnavailableWithoutDir(t *testing.T) {
	h := &Handlers{Memory: memory.New("")}
	res := h.ListMemoryNotes(context.Background())
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "memory_unavailable")
}

func TestListMemoryNotesReturnsNotes(t *testing.T) {
	dir := t.TempDir()
	m := memory.New(dir)
	require.NoError(t, m.Write("todo", "buy milk"))

	h := &Handlers{Memory: m}
	res := h.ListMemoryNotes(context.Background())
	require.False(t, res.IsError)

	var out struct {
		Notes []MemoryNote `json:"notes"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	require.Len(t, out.Notes, 1)
	assert.Equal(t, "todo.md", out.Notes[0].Name)
}

func TestReadMemoryNoteRequiresName(t *testing.T) {
	h := &Handlers{Memory: memory.New(t.TempDir())}
	res := h.ReadMemoryNote(context.Background(), "")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid_params")
}

func TestReadMemoryNoteReturnsContent(t *testing.T) {
	dir := t.TempDir()
	m := memory.New(dir)
	require.NoError(t, m.Write("todo", "buy milk"))

	h := &Handlers{Memory: m}
	res := h.ReadMemoryNote(context.Background(), "todo")
	require.False(t, res.IsError)

	var out struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	assert.Equal(t, "buy milk", out.Content)
}

func TestReadMemoryNoteMissingReturnsNotFound(t *testing.T) {
	h := &Handlers{Memory: memory.New(t.TempDir())}
	res := h.ReadMemoryNote(context.Background(), "missing")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "memory_note_not_found")
}

func TestWriteMemoryNoteRequiresName(t *testing.T) {
	h := &Handlers{Memory: memory.New(t.TempDir())}
	res := h.WriteMemoryNote(context.Background(), "", "content")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid_params")
}

func TestWriteMemoryNoteThenReadRoundTrips(t *testing.T) {
	m := memory.New(t.TempDir())
	h := &Handlers{Memory: m}

	res := h.WriteMemoryNote(context.Background(), "todo", "buy milk")
	require.False(t, res.IsError)

	got, err := m.Read("todo")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got)
}

func TestMemoryToolsUnavailableWithNilStore(t *testing.T) {
	h := &Handlers{}
	assert.True(t, h.ListMemoryNotes(context.Background()).IsError)
	assert.True(t, h.ReadMemoryNote(context.Background(), "x").IsError)
	assert.True(t, h.WriteMemoryNote(context.Background(), "x", "y").IsError)
}
