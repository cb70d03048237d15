package mcptools

import (
	"context"
	"time"
)

// RefreshCredentials implements the refresh_credentials tool per spec
// §4.9. Preconditions mirror isRefreshAvailable; the actual refresh is
// delegated to the RefreshScheduler's manual trigger.
func (h *Handlers) RefreshCredentials(ctx context.Context) *Result {
	if !h.Auth.IsUser() {
		return failure(toolError{Code: "REFRESH_NOT_AVAILABLE", Message: "refresh is only for user auth"})
	}
	if h.RefreshCfg.Workspace == "" || !h.RefreshCfg.Enabled {
		return failure(toolError{Code: "REFRESH_NOT_AVAILABLE", Message: "ensure SLACK_WORKSPACE is set"})
	}

	if err := h.Scheduler.TriggerManual(ctx); err != nil {
		return success(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":      err.Code,
				"message":   err.Message,
				"retryable": err.Retryable(),
			},
		})
	}

	state := h.Manager.State()
	return success(map[string]interface{}{
		"success":        true,
		"message":        "Credentials refreshed successfully",
		"refreshedAt":    state.LastSuccess.Format(time.RFC3339),
		"totalRefreshes": state.RefreshCount,
	})
}
