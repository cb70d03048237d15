package mcptools

import (
	"context"
	"errors"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-server/internal/cache"
	"github.com/zsxkib/slack-mcp-server/internal/slackapi"
)

var errNotInChannel = errors.New("not_in_channel")

// fakeAPI is a minimal slackapi.API double for tool-handler tests. Each
// field is read by the one method under test; others return their zero
// value since unrelated handlers never call them.
type fakeAPI struct {
	authTest      *slack.AuthTestResponse
	channels      []slack.Channel
	channelsNext  string
	history       *slack.GetConversationHistoryResponse
	replies       []slack.Message
	repliesMore   bool
	repliesCursor string
	users         []slack.User
	userInfo      *slack.User
	searchResult  *slack.SearchMessages
	err           error
}

func (f *fakeAPI) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.authTest, nil
}

func (f *fakeAPI) GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.channels, f.channelsNext, nil
}

func (f *fakeAPI) GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func (f *fakeAPI) GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	if f.err != nil {
		return nil, false, "", f.err
	}
	return f.replies, f.repliesMore, f.repliesCursor, nil
}

func (f *fakeAPI) GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeAPI) GetUserInfoContext(ctx context.Context, user string) (*slack.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userInfo, nil
}

func (f *fakeAPI) SearchContext(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, *slack.SearchFiles, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.searchResult, nil, nil
}

var _ slackapi.API = (*fakeAPI)(nil)

// fakeHolder satisfies clientHolder, always returning the same API.
type fakeHolder struct {
	api slackapi.API
}

func (f *fakeHolder) Get() slackapi.API { return f.api }

func newTestHandlers(api *fakeAPI) *Handlers {
	holder := &fakeHolder{api: api}
	return &Handlers{
		Holder:   holder,
		Channels: cache.NewChannelCache(holder, nil),
		Users:    cache.NewUserCache(holder, nil),
	}
}
