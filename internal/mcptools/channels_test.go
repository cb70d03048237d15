package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conv(id, name string) slack.Channel {
	return slack.Channel{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: id}, Name: name}}
}

func TestListChannelsFiltersByQueryAndMinMembers(t *testing.T) {
	general := conv("C001", "general")
	general.NumMembers = 50
	random := conv("C002", "random")
	random.NumMembers = 2

	h := newTestHandlers(&fakeAPI{channels: []slack.Channel{general, random}})
	res := h.ListChannels(context.Background(), "gen", "public_channel", "", 10, 1000)

	require.False(t, res.IsError)
	var out struct {
		Channels []ChannelListItem `json:"channels"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
	require.Len(t, out.Channels, 1)
	assert.Equal(t, "C001", out.Channels[0].ID)
}

func TestListChannelsRequiresChannelTypes(t *testing.T) {
	h := newTestHandlers(&fakeAPI{})
	res := h.ListChannels(context.Background(), "", "", "", 0, 1000)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid_params")
}

func TestListChannelsMapsSlackError(t *testing.T) {
	h := newTestHandlers(&fakeAPI{err: errNotInChannel})
	res := h.ListChannels(context.Background(), "", "public_channel", "", 0, 1000)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "not_in_channel")
}

func TestListChannelsPreservesFalseAndZeroFields(t *testing.T) {
	general := conv("C001", "general")
	h := newTestHandlers(&fakeAPI{channels: []slack.Channel{general}})
	res := h.ListChannels(context.Background(), "", "public_channel", "", 0, 1000)

	require.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, `"isPrivate":false`)
	assert.Contains(t, res.Content[0].Text, `"isIM":false`)
	assert.Contains(t, res.Content[0].Text, `"isMpIM":false`)
	assert.Contains(t, res.Content[0].Text, `"memberCount":0`)
}
