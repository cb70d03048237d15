package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentUserFormatsAuthTestResponse(t *testing.T) {
	api := &fakeAPI{authTest: &slack.AuthTestResponse{
		UserID: "U1", User: "alice", TeamID: "T1", Team: "Acme", URL: "https://acme.slack.com/",
	}}
	h := newTestHandlers(api)
	res := h.GetCurrentUser(context.Background())
	require.False(t, res.IsError)

	var out CurrentUser
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	assert.Equal(t, "U1", out.UserID)
	assert.Equal(t, "alice", out.UserName)
	assert.Equal(t, "Acme", out.TeamName)
}

func TestGetCurrentUserMapsSlackError(t *testing.T) {
	h := newTestHandlers(&fakeAPI{err: errNotInChannel})
	res := h.GetCurrentUser(context.Background())
	assert.True(t, res.IsError)
}
