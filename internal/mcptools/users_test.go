package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersDropsDeletedKeepsBotsByDefault(t *testing.T) {
	api := &fakeAPI{users: []slack.User{
		{ID: "U1", Name: "alice"},
		{ID: "U2", Name: "zbot", IsBot: true},
		{ID: "U3", Name: "gone", Deleted: true},
	}}
	h := newTestHandlers(api)
	res := h.ListUsers(context.Background(), "", "all", false, true, 1000)
	require.False(t, res.IsError)

	var out struct {
		Users []UserListItem `json:"users"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	require.Len(t, out.Users, 2)
	assert.Equal(t, "alice", out.Users[0].Name)
}

func TestListUsersFilterBots(t *testing.T) {
	api := &fakeAPI{users: []slack.User{
		{ID: "U1", Name: "alice"},
		{ID: "U2", Name: "bot", IsBot: true},
	}}
	h := newTestHandlers(api)
	res := h.ListUsers(context.Background(), "", "bots", false, true, 1000)
	require.False(t, res.IsError)
	var out struct {
		Users []UserListItem `json:"users"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	require.Len(t, out.Users, 1)
	assert.Equal(t, "bot", out.Users[0].Name)
}

func TestGetUserProfileRequiresUserID(t *testing.T) {
	h := newTestHandlers(&fakeAPI{})
	res := h.GetUserProfile(context.Background(), "")
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid_params")
}

func TestGetUserProfileFormatsResult(t *testing.T) {
	api := &fakeAPI{userInfo: &slack.User{
		ID: "U1", Name: "alice", RealName: "Alice A",
		Profile: slack.UserProfile{DisplayName: "Alice", Email: "alice@example.com", Title: "Engineer"},
	}}
	h := newTestHandlers(api)
	res := h.GetUserProfile(context.Background(), "U1")
	require.False(t, res.IsError)

	var profile UserProfile
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &profile))
	assert.Equal(t, "U1", profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Engineer", profile.Title)
}

func TestGetUserProfileMapsSlackError(t *testing.T) {
	h := newTestHandlers(&fakeAPI{err: errNotInChannel})
	res := h.GetUserProfile(context.Background(), "U1")
	assert.True(t, res.IsError)
}

func TestListUsersPreservesFalseBooleanFields(t *testing.T) {
	api := &fakeAPI{users: []slack.User{{ID: "U1", Name: "alice"}}}
	h := newTestHandlers(api)
	res := h.ListUsers(context.Background(), "", "all", false, true, 1000)
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, `"isBot":false`)
	assert.Contains(t, res.Content[0].Text, `"isAdmin":false`)
	assert.Contains(t, res.Content[0].Text, `"deleted":false`)
}

func TestGetUserProfilePreservesFalseBooleanFields(t *testing.T) {
	api := &fakeAPI{userInfo: &slack.User{ID: "U1", Name: "alice"}}
	h := newTestHandlers(api)
	res := h.GetUserProfile(context.Background(), "U1")
	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, `"isBot":false`)
	assert.Contains(t, res.Content[0].Text, `"isAdmin":false`)
}
