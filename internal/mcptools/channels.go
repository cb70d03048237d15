package mcptools

import (
	"context"
	"strings"

	"github.com/slack-go/slack"
)

// ChannelListItem is the list_channels tool's output shape. The cache
// itself stays at spec §3's minimal {id,name}; this richer shape is
// supplemented onto the tool's own response per SPEC_FULL.md §11.
type ChannelListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Topic       string `json:"topic,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	MemberCount int    `json:"memberCount"`
	IsPrivate   bool   `json:"isPrivate"`
	IsIM        bool   `json:"isIM"`
	IsMpIM      bool   `json:"isMpIM"`
}

type listChannelsParams struct {
	query       string
	types       []string
	minMembers  int
	cursor      string
	limit       int
}

// ListChannels implements the list_channels tool (Slack API:
// conversations.list).
func (h *Handlers) ListChannels(ctx context.Context, query, channelTypes, cursor string, minMembers, limit int) *Result {
	params := listChannelsParams{
		query:      strings.ToLower(strings.TrimSpace(query)),
		types:      splitCSVList(channelTypes),
		minMembers: minMembers,
		cursor:     cursor,
		limit:      limit,
	}
	if len(params.types) == 0 {
		return schemaError("channel_types must be provided")
	}
	if params.limit <= 0 || params.limit > 1000 {
		params.limit = 1000
	}

	api := h.Holder.Get()
	slackParams := &slack.GetConversationsParameters{
		Types:  params.types,
		Cursor: params.cursor,
		Limit:  params.limit,
	}

	channels, nextCursor, err := api.GetConversationsContext(ctx, slackParams)
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "list_channels", e)
		return failure(e)
	}

	items := make([]ChannelListItem, 0, len(channels))
	for _, ch := range channels {
		if params.minMembers > 0 && ch.NumMembers < params.minMembers {
			continue
		}
		if params.query != "" &&
			!strings.Contains(strings.ToLower(ch.Name), params.query) &&
			!strings.Contains(strings.ToLower(ch.Topic.Value), params.query) &&
			!strings.Contains(strings.ToLower(ch.Purpose.Value), params.query) {
			continue
		}
		items = append(items, ChannelListItem{
			ID:          ch.ID,
			Name:        ch.Name,
			Topic:       ch.Topic.Value,
			Purpose:     ch.Purpose.Value,
			MemberCount: ch.NumMembers,
			IsPrivate:   ch.IsPrivate,
			IsIM:        ch.IsIM,
			IsMpIM:      ch.IsMpIM,
		})
	}

	return success(map[string]interface{}{
		"channels":   items,
		"nextCursor": nextCursor,
	})
}
