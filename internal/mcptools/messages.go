package mcptools

import (
	"context"
	"time"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-server/internal/format"
)

// MessageItem is the FormattedMessage shape of spec §3: every read tool
// that returns Slack messages converges on this after the FormatPipeline
// has run.
type MessageItem struct {
	ID           string         `json:"id"`
	Time         string         `json:"time,omitempty"`
	User         string         `json:"user,omitempty"`
	Text         string         `json:"text"`
	ThreadID     string         `json:"threadId,omitempty"`
	ReplyCount   int            `json:"replyCount,omitempty"`
	Reactions    map[string]int `json:"reactions,omitempty"`
	ThreadParent *MessageItem   `json:"threadParent,omitempty"`
}

func (h *Handlers) formatMessage(ctx context.Context, msg slack.Message, now time.Time) MessageItem {
	item := MessageItem{
		ID:         msg.Timestamp,
		ThreadID:   msg.ThreadTimestamp,
		ReplyCount: msg.ReplyCount,
		Text:       format.CleanMarkup(msg.Text, h.Users),
		Time:       format.RelativeTime(msg.Timestamp, now),
	}
	if msg.User != "" {
		item.User = h.Users.Resolve(ctx, msg.User)
	}

	if reactions, ok := compactReactions(msg.Reactions); ok {
		item.Reactions = reactions
	}

	return item
}

func compactReactions(rs []slack.ItemReaction) (map[string]int, bool) {
	converted := make([]format.Reaction, 0, len(rs))
	for _, r := range rs {
		converted = append(converted, format.Reaction{Name: r.Name, Count: r.Count, Users: r.Users})
	}
	return format.CompactReactions(converted)
}

func parseLimit(limit, defaultLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

// GetChannelHistory implements the get_channel_history tool (Slack API:
// conversations.history).
func (h *Handlers) GetChannelHistory(ctx context.Context, channelID, cursor string, limit int) *Result {
	if channelID == "" {
		return schemaError("channel_id must be provided")
	}

	resolved := h.Channels.ResolveChannelID(ctx, channelID)
	api := h.Holder.Get()

	history, err := api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: resolved,
		Cursor:    cursor,
		Limit:     parseLimit(limit, 50),
	})
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "get_channel_history", e)
		return failure(e)
	}

	items := make([]map[string]interface{}, 0, len(history.Messages))
	now := time.Now()
	for _, msg := range history.Messages {
		m := toMap(h.formatMessage(ctx, msg, now))
		restoreText(m)
		items = append(items, m)
	}

	out := map[string]interface{}{"messages": items}
	if history.HasMore {
		out["nextCursor"] = history.ResponseMetaData.NextCursor
	}
	return success(out)
}

// GetThreadReplies implements the get_thread_replies tool (Slack API:
// conversations.replies).
func (h *Handlers) GetThreadReplies(ctx context.Context, channelID, threadTs, cursor string, limit int) *Result {
	if channelID == "" {
		return schemaError("channel_id must be provided")
	}
	if threadTs == "" {
		return schemaError("thread_ts must be provided")
	}

	resolved := h.Channels.ResolveChannelID(ctx, channelID)
	api := h.Holder.Get()

	replies, hasMore, nextCursor, err := api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: resolved,
		Timestamp: threadTs,
		Cursor:    cursor,
		Limit:     parseLimit(limit, 50),
	})
	if err != nil {
		e := mapSlackError(err)
		h.logError(ctx, "get_thread_replies", e)
		return failure(e)
	}

	items := make([]map[string]interface{}, 0, len(replies))
	now := time.Now()
	for _, msg := range replies {
		m := toMap(h.formatMessage(ctx, msg, now))
		restoreText(m)
		items = append(items, m)
	}

	out := map[string]interface{}{"messages": items}
	if hasMore {
		out["nextCursor"] = nextCursor
	}
	return success(out)
}

func toMap(item MessageItem) map[string]interface{} {
	m := map[string]interface{}{
		"id":   item.ID,
		"text": item.Text,
	}
	if item.Time != "" {
		m["time"] = item.Time
	}
	if item.User != "" {
		m["user"] = item.User
	}
	if item.ThreadID != "" {
		m["threadId"] = item.ThreadID
	}
	if item.ReplyCount != 0 {
		m["replyCount"] = item.ReplyCount
	}
	if item.Reactions != nil {
		m["reactions"] = item.Reactions
	}
	if item.ThreadParent != nil {
		m["threadParent"] = toMap(*item.ThreadParent)
	}
	return m
}
