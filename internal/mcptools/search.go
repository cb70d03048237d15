package mcptools

import (
	"context"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-server/internal/format"
)

const threadParentTruncateLen = 200

type threadKey struct {
	channel  string
	threadTs string
}

// SearchMessages implements the search_messages tool (Slack API:
// search.messages), available only to User-mode auth per spec §4.8 point 2.
func (h *Handlers) SearchMessages(ctx context.Context, query string, sortChronological bool, page, limit int) *Result {
	if !h.isSearchAvailable() {
		return failure(toolError{Code: "search_requires_user_token", Message: "search requires an active user-mode Slack session"})
	}
	if query == "" {
		return schemaError("query must be provided")
	}

	sortField, sortDir := slack.DEFAULT_SEARCH_SORT, slack.DEFAULT_SEARCH_SORT_DIR
	if sortChronological {
		sortField, sortDir = "timestamp", "asc"
	}

	api := h.Holder.Get()
	res, _, err := api.SearchContext(ctx, query, slack.SearchParameters{
		Sort:          sortField,
		SortDirection: sortDir,
		Count:         parseLimit(limit, 20),
		Page:          parseLimit(page, 1),
	})
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "search_messages", e)
		return failure(e)
	}

	now := time.Now()
	seen := map[threadKey]bool{}
	items := make([]map[string]interface{}, 0, len(res.Matches))
	for _, match := range res.Matches {
		m := h.formatSearchMatch(ctx, match, now)

		key := threadKey{channel: match.Channel.ID, threadTs: match.Timestamp}
		if match.Channel.ID != "" && key.threadTs != "" && !seen[key] {
			seen[key] = true
			if parent := h.fetchThreadParent(ctx, key.channel, key.threadTs, now); parent != nil {
				m["threadId"] = key.threadTs
				m["threadParent"] = parent
			}
		}

		restoreText(m)
		items = append(items, m)
	}

	out := map[string]interface{}{
		"messages":   items,
		"totalCount": res.Pagination.TotalCount,
		"page":       res.Pagination.Page,
		"pageCount":  res.Pagination.PageCount,
	}
	return success(out)
}

// formatSearchMatch builds the FormattedSearchResult shape of spec §3:
// id, channel ("#name (Cxxx)" or "DM: name (Dxxx)"), user, time, text.
func (h *Handlers) formatSearchMatch(ctx context.Context, match slack.SearchMessage, now time.Time) map[string]interface{} {
	m := map[string]interface{}{
		"id":      match.Timestamp,
		"text":    format.CleanMarkup(match.Text, h.Users),
		"time":    format.RelativeTime(match.Timestamp, now),
		"channel": h.formatChannelLabel(match.Channel.ID, match.Channel.Name),
	}

	switch {
	case match.User != "":
		m["user"] = h.Users.Resolve(ctx, match.User)
	case match.Username != "":
		m["user"] = match.Username
	}

	return m
}

func (h *Handlers) formatChannelLabel(id, name string) string {
	if name == "" {
		if ch, ok := h.Channels.Lookup(id); ok {
			name = ch.Name
		} else {
			name = id
		}
	}
	if strings.HasPrefix(id, "D") {
		return "DM: " + name + " (" + id + ")"
	}
	return "#" + name + " (" + id + ")"
}

// fetchThreadParent fetches and formats the parent message of a thread for
// search-result enrichment per spec §4.8 point 6. Any failure is swallowed
// and nil is returned so the caller omits threadParent silently.
func (h *Handlers) fetchThreadParent(ctx context.Context, channelID, threadTs string, now time.Time) map[string]interface{} {
	api := h.Holder.Get()
	replies, _, _, err := api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTs,
		Limit:     1,
	})
	if err != nil || len(replies) == 0 {
		return nil
	}

	parent := h.formatMessage(ctx, replies[0], now)
	out := map[string]interface{}{
		"text": truncateWithEllipsis(parent.Text, threadParentTruncateLen),
	}
	if parent.User != "" {
		out["user"] = parent.User
	}
	if parent.Time != "" {
		out["time"] = parent.Time
	}
	return out
}

func truncateWithEllipsis(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
