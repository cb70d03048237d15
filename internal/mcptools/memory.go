package mcptools

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/zsxkib/slack-mcp-server/internal/memory"
)

// MemoryNote is the list_memory_notes tool's output shape.
type MemoryNote struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	HumanSize string `json:"humanSize,omitempty"`
	ModTime   string `json:"modTime,omitempty"`
}

func memoryUnavailable() *Result {
	return failure(toolError{Code: "memory_unavailable", Message: "SLACK_MEMORY_DIR is not configured"})
}

// ListMemoryNotes implements the list_memory_notes tool: the directory
// listing half of the Markdown memory store, per spec §1/§6 (the
// indexer/search over note content is an external collaborator and isn't
// implemented here).
func (h *Handlers) ListMemoryNotes(ctx context.Context) *Result {
	if h.Memory == nil || !h.Memory.Available() {
		return memoryUnavailable()
	}
	notes, err := h.Memory.List()
	if err != nil {
		e := toolError{Code: "memory_io_error", Message: err.Error()}
		h.logError(ctx, "list_memory_notes", e)
		return failure(e)
	}
	items := make([]MemoryNote, 0, len(notes))
	for _, n := range notes {
		items = append(items, MemoryNote{
			Name:      n.Name,
			Size:      n.Size,
			HumanSize: humanize.Bytes(uint64(n.Size)),
			ModTime:   n.ModTime.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return success(map[string]interface{}{"notes": items})
}

// ReadMemoryNote implements the read_memory_note tool.
func (h *Handlers) ReadMemoryNote(ctx context.Context, name string) *Result {
	if h.Memory == nil || !h.Memory.Available() {
		return memoryUnavailable()
	}
	if name == "" {
		return schemaError("name must be provided")
	}
	content, err := h.Memory.Read(name)
	if err != nil {
		if _, ok := err.(*memory.NotFoundError); ok {
			return failure(toolError{Code: "memory_note_not_found", Message: err.Error()})
		}
		e := toolError{Code: "memory_io_error", Message: err.Error()}
		h.logError(ctx, "read_memory_note", e)
		return failure(e)
	}
	return success(map[string]interface{}{"name": name, "content": content})
}

// WriteMemoryNote implements the write_memory_note tool: the one
// deliberately write-capable tool in this module, scoped to the local
// memory directory rather than Slack itself (spec §6: "no hints for
// memory-write").
func (h *Handlers) WriteMemoryNote(ctx context.Context, name, content string) *Result {
	if h.Memory == nil || !h.Memory.Available() {
		return memoryUnavailable()
	}
	if name == "" {
		return schemaError("name must be provided")
	}
	if err := h.Memory.Write(name, content); err != nil {
		e := toolError{Code: "memory_io_error", Message: err.Error()}
		h.logError(ctx, "write_memory_note", e)
		return failure(e)
	}
	return success(map[string]interface{}{"name": name, "written": true})
}
