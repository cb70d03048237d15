// Package slackapi declares the slice of the Slack Web API surface this
// bridge actually calls. It mirrors the shape of the teacher's
// provider.SlackAPI interface, trimmed to the read-only methods the spec's
// tools need (spec §1: the Slack HTTP client surface itself is an external
// collaborator, specified here only by contract).
package slackapi

import (
	"context"

	"github.com/slack-go/slack"
)

// API is the read-only subset of slack-go's *slack.Client this bridge
// depends on. Implementations: *slack.Client directly, or a test double.
type API interface {
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) (msgs []slack.Message, hasMore bool, nextCursor string, err error)
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	SearchContext(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, *slack.SearchFiles, error)
}
