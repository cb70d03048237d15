package mcptools

import (
	"context"
	"sort"
	"strings"

	"github.com/slack-go/slack"
)

// UserListItem is the list_users tool's output shape: richer than the
// name cache's minimal {id,displayName}, per the same "cache stays
// minimal, tool output can be richer" rule §11 applies to list_channels.
type UserListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RealName    string `json:"realName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	IsBot       bool   `json:"isBot"`
	IsAdmin     bool   `json:"isAdmin"`
	Deleted     bool   `json:"deleted"`
}

func toUserListItem(u slack.User) UserListItem {
	return UserListItem{
		ID:          u.ID,
		Name:        u.Name,
		RealName:    u.RealName,
		DisplayName: u.Profile.DisplayName,
		Email:       u.Profile.Email,
		IsBot:       u.IsBot,
		IsAdmin:     u.IsAdmin || u.IsOwner || u.IsPrimaryOwner,
		Deleted:     u.Deleted,
	}
}

// ListUsers implements the list_users tool (Slack API: users.list).
func (h *Handlers) ListUsers(ctx context.Context, query, filter string, includeDeleted, includeBots bool, limit int) *Result {
	api := h.Holder.Get()
	all, err := api.GetUsersContext(ctx)
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "list_users", e)
		return failure(e)
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))

	filtered := make([]slack.User, 0, len(all))
	for _, u := range all {
		if u.Deleted && !includeDeleted {
			continue
		}
		if u.IsBot && !includeBots {
			continue
		}
		if queryLower != "" &&
			!strings.Contains(strings.ToLower(u.Name), queryLower) &&
			!strings.Contains(strings.ToLower(u.RealName), queryLower) &&
			!strings.Contains(strings.ToLower(u.Profile.DisplayName), queryLower) {
			continue
		}
		if !matchesUserFilter(u, filter) {
			continue
		}
		filtered = append(filtered, u)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })

	capped := parseLimit(limit, 1000)
	if capped > 1000 {
		capped = 1000
	}
	if len(filtered) > capped {
		filtered = filtered[:capped]
	}

	items := make([]UserListItem, 0, len(filtered))
	for _, u := range filtered {
		items = append(items, toUserListItem(u))
	}

	return success(map[string]interface{}{"users": items})
}

func matchesUserFilter(u slack.User, filter string) bool {
	switch filter {
	case "active":
		return !u.Deleted
	case "deleted":
		return u.Deleted
	case "bots":
		return u.IsBot
	case "humans":
		return !u.IsBot
	case "admins":
		return u.IsAdmin || u.IsOwner || u.IsPrimaryOwner
	default:
		return true
	}
}

// UserProfile is the get_user_profile tool's output shape.
type UserProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RealName    string `json:"realName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Title       string `json:"title,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
	IsBot       bool   `json:"isBot"`
	IsAdmin     bool   `json:"isAdmin"`
}

// GetUserProfile implements the get_user_profile tool (Slack API:
// users.info).
func (h *Handlers) GetUserProfile(ctx context.Context, userID string) *Result {
	if userID == "" {
		return schemaError("user_id must be provided")
	}

	api := h.Holder.Get()
	u, err := api.GetUserInfoContext(ctx, userID)
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "get_user_profile", e)
		return failure(e)
	}

	return success(UserProfile{
		ID:          u.ID,
		Name:        u.Name,
		RealName:    u.RealName,
		DisplayName: u.Profile.DisplayName,
		Email:       u.Profile.Email,
		Title:       u.Profile.Title,
		Phone:       u.Profile.Phone,
		TimeZone:    u.TZ,
		IsBot:       u.IsBot,
		IsAdmin:     u.IsAdmin || u.IsOwner || u.IsPrimaryOwner,
	})
}
