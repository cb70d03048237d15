package mcptools

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsxkib/slack-mcp-server/internal/config"
)

func TestSearchMessagesRequiresUserMode(t *testing.T) {
	h := newTestHandlers(&fakeAPI{})
	h.Auth = config.AuthConfig{Mode: config.ModeBot}
	res := h.SearchMessages(context.Background(), "hello", false, 1, 20)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "search_requires_user_token")
}

func TestSearchMessagesRequiresQuery(t *testing.T) {
	h := newTestHandlers(&fakeAPI{})
	h.Auth = config.AuthConfig{Mode: config.ModeUser}
	res := h.SearchMessages(context.Background(), "", false, 1, 20)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid_params")
}

func TestSearchMessagesFormatsChannelLabel(t *testing.T) {
	searchResult := &slack.SearchMessages{}
	searchResult.Matches = []slack.SearchMessage{
		{
			Type:      "message",
			Timestamp: "1700000000.000000",
			Text:      "found it",
			Username:  "bob",
			Channel:   slack.CtxChannel{ID: "C001", Name: "general"},
		},
	}
	searchResult.Pagination.TotalCount = 1
	searchResult.Pagination.Page = 1
	searchResult.Pagination.PageCount = 1

	api := &fakeAPI{searchResult: searchResult}
	h := newTestHandlers(api)
	h.Auth = config.AuthConfig{Mode: config.ModeUser}

	res := h.SearchMessages(context.Background(), "found", false, 1, 20)
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "#general (C001)")
	assert.Contains(t, res.Content[0].Text, "found it")
	assert.Contains(t, res.Content[0].Text, "\"user\":\"bob\"")
}

func TestSearchMessagesDMChannelLabel(t *testing.T) {
	searchResult := &slack.SearchMessages{}
	searchResult.Matches = []slack.SearchMessage{
		{Timestamp: "1700000000.000000", Text: "dm text", Channel: slack.CtxChannel{ID: "D001", Name: "alice"}},
	}
	api := &fakeAPI{searchResult: searchResult}
	h := newTestHandlers(api)
	h.Auth = config.AuthConfig{Mode: config.ModeUser}

	res := h.SearchMessages(context.Background(), "dm", false, 1, 20)
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "DM: alice (D001)")
}
