package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsxkib/slack-mcp-server/internal/slackapi"
)

type fakeChannelAPI struct {
	pages [][]slack.Channel
	calls int
	err   error
	mu    sync.Mutex
}

func (f *fakeChannelAPI) GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	idx := f.calls
	f.calls++
	if idx >= len(f.pages) {
		return nil, "", nil
	}
	cursor := ""
	if idx < len(f.pages)-1 {
		cursor = "next"
	}
	return f.pages[idx], cursor, nil
}

func (f *fakeChannelAPI) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) { return nil, nil }
func (f *fakeChannelAPI) GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	return nil, nil
}
func (f *fakeChannelAPI) GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	return nil, false, "", nil
}
func (f *fakeChannelAPI) GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error) {
	return nil, nil
}
func (f *fakeChannelAPI) GetUserInfoContext(ctx context.Context, user string) (*slack.User, error) {
	return nil, nil
}
func (f *fakeChannelAPI) SearchContext(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, *slack.SearchFiles, error) {
	return nil, nil, nil
}

// fixedHolder is a clientHolder that always resolves to the same fake
// client, for tests that don't exercise credential rebinding.
type fixedHolder struct{ api slackapi.API }

func (h fixedHolder) Get() slackapi.API { return h.api }

func TestResolveChannelIDPassesThroughRawIDs(t *testing.T) {
	c := NewChannelCache(fixedHolder{&fakeChannelAPI{}}, nil)
	assert.Equal(t, "C0123456", c.ResolveChannelID(context.Background(), "C0123456"))
}

func TestResolveChannelIDResolvesByNamePaginated(t *testing.T) {
	api := &fakeChannelAPI{pages: [][]slack.Channel{
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C001"}, Name: "general"}}},
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C002"}, Name: "random"}}},
	}}
	c := NewChannelCache(fixedHolder{api}, nil)

	assert.Equal(t, "C001", c.ResolveChannelID(context.Background(), "general"))
	assert.Equal(t, "C002", c.ResolveChannelID(context.Background(), "#random"))
	assert.Equal(t, 2, api.calls)
}

func TestResolveChannelIDUnknownNameFallsBackToInput(t *testing.T) {
	c := NewChannelCache(fixedHolder{&fakeChannelAPI{pages: [][]slack.Channel{{}}}}, nil)
	assert.Equal(t, "nope", c.ResolveChannelID(context.Background(), "nope"))
}

func TestResolveChannelIDOnlyPopulatesOnce(t *testing.T) {
	api := &fakeChannelAPI{pages: [][]slack.Channel{
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C001"}, Name: "general"}}},
	}}
	c := NewChannelCache(fixedHolder{api}, nil)

	c.ResolveChannelID(context.Background(), "general")
	c.ResolveChannelID(context.Background(), "general")
	c.ResolveChannelID(context.Background(), "missing")

	assert.Equal(t, 1, api.calls)
}

func TestResolveChannelIDPopulateFailureServesRawFallback(t *testing.T) {
	api := &fakeChannelAPI{err: errors.New("boom")}
	c := NewChannelCache(fixedHolder{api}, nil)

	got := c.ResolveChannelID(context.Background(), "general")
	assert.Equal(t, "general", got)

	_, ok := c.Lookup("C001")
	assert.False(t, ok)
}

func TestChannelCacheReset(t *testing.T) {
	api := &fakeChannelAPI{pages: [][]slack.Channel{
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C001"}, Name: "general"}}},
	}}
	c := NewChannelCache(fixedHolder{api}, nil)

	c.ResolveChannelID(context.Background(), "general")
	c.Reset()
	c.ResolveChannelID(context.Background(), "general")

	require.Equal(t, 2, api.calls)
}

func TestChannelCacheLookup(t *testing.T) {
	api := &fakeChannelAPI{pages: [][]slack.Channel{
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C001"}, Name: "general"}}},
	}}
	c := NewChannelCache(fixedHolder{api}, nil)
	c.ResolveChannelID(context.Background(), "general")

	ch, ok := c.Lookup("C001")
	require.True(t, ok)
	assert.Equal(t, "general", ch.Name)
}

func TestChannelCacheRebindIsVisibleAfterReset(t *testing.T) {
	oldAPI := &fakeChannelAPI{pages: [][]slack.Channel{
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C001"}, Name: "general"}}},
	}}
	newAPI := &fakeChannelAPI{pages: [][]slack.Channel{
		{{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C002"}, Name: "general"}}},
	}}
	holder := &swappableHolder{api: oldAPI}
	c := NewChannelCache(holder, nil)

	assert.Equal(t, "C001", c.ResolveChannelID(context.Background(), "general"))

	holder.api = newAPI
	c.Reset()

	assert.Equal(t, "C002", c.ResolveChannelID(context.Background(), "general"))
}

// swappableHolder lets a test rebind the client mid-run, mirroring
// *slackauth.Holder.Rebind without standing up a real Holder.
type swappableHolder struct{ api slackapi.API }

func (h *swappableHolder) Get() slackapi.API { return h.api }
