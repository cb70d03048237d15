package mcptools

import "context"

// CurrentUser is the get_current_user tool's output shape, grounded on
// the auth.test response fields.
type CurrentUser struct {
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	TeamID       string `json:"teamId"`
	TeamName     string `json:"teamName"`
	WorkspaceURL string `json:"workspaceUrl,omitempty"`
	EnterpriseID string `json:"enterpriseId,omitempty"`
}

// GetCurrentUser implements the get_current_user (whoami) tool (Slack
// API: auth.test). Supplemented per SPEC_FULL.md §11: a thin read-only
// wrapper needed anyway because refresh_credentials validates a refresh
// the same way.
func (h *Handlers) GetCurrentUser(ctx context.Context) *Result {
	api := h.Holder.Get()
	res, err := api.AuthTestContext(ctx)
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "get_current_user", e)
		return failure(e)
	}

	return success(CurrentUser{
		UserID:       res.UserID,
		UserName:     res.User,
		TeamID:       res.TeamID,
		TeamName:     res.Team,
		WorkspaceURL: res.URL,
		EnterpriseID: res.EnterpriseID,
	})
}
