package mcptools

import (
	"github.com/zsxkib/slack-mcp-server/internal/errlog"
)

// GetErrorLog implements the get_error_log tool: a read-only window onto
// the diagnostic log every other handler's failures funnel through
// (spec §4.10). Newest-first, capped by limit, per errlog.Log.Read.
func (h *Handlers) GetErrorLog(limit int) *Result {
	if h.Log == nil {
		return success(map[string]interface{}{"entries": []errlog.Entry{}})
	}
	entries := h.Log.Read(parseLimit(limit, 100))
	return success(map[string]interface{}{"entries": entries})
}

// ClearErrorLog implements the clear_error_log tool. An empty cutoff
// clears every entry; a non-empty cutoff retains entries at or after it,
// per errlog.Log.Clear.
func (h *Handlers) ClearErrorLog(cutoff string) *Result {
	if h.Log == nil {
		return success(map[string]interface{}{"cleared": true})
	}
	if err := h.Log.Clear(cutoff); err != nil {
		return failure(toolError{Code: "internal_error", Message: err.Error()})
	}
	return success(map[string]interface{}{"cleared": true})
}
