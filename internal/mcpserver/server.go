// Package mcpserver is the seam where the tool-protocol framing (spec §1's
// external collaborator) gets wired to internal/mcptools's plain Go
// methods. It mirrors the teacher's pkg/server/server.go shape: one
// server.MCPServer, one mcp.NewTool/AddTool call per tool, a thin adapter
// per handler that extracts typed parameters from the request and
// translates mcptools.Result into *mcp.CallToolResult.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/zsxkib/slack-mcp-server/internal/mcptools"
	"github.com/zsxkib/slack-mcp-server/pkg/version"
)

// New builds an MCP server with every tool registered against h: the Slack
// read tools, get_current_user, refresh_credentials, the memory-note tools
// and the error-log tools.
func New(h *mcptools.Handlers, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"Slack MCP Server",
		version.Version,
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(loggerMiddleware(logger)),
	)

	s.AddTool(mcp.NewTool("list_channels",
		mcp.WithDescription("List channels the workspace has (Slack API: conversations.list)"),
		mcp.WithString("query", mcp.Description("Case-insensitive substring filter over name/topic/purpose")),
		mcp.WithString("channel_types", mcp.DefaultString("public_channel"), mcp.Description("Comma-separated conversation types, e.g. public_channel,private_channel,mpim,im")),
		mcp.WithNumber("min_members", mcp.Description("Drop channels with fewer members than this")),
		mcp.WithString("cursor", mcp.Description("Pagination cursor from a previous response")),
		mcp.WithNumber("limit", mcp.DefaultNumber(1000), mcp.Description("Max channels per page, capped at 1000")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.ListChannels(ctx,
			req.GetString("query", ""),
			req.GetString("channel_types", "public_channel"),
			req.GetString("cursor", ""),
			req.GetInt("min_members", 0),
			req.GetInt("limit", 1000),
		)), nil
	})

	s.AddTool(mcp.NewTool("get_channel_history",
		mcp.WithDescription("Get messages from a channel or DM (Slack API: conversations.history)"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("Channel ID (Cxxxxxxxxxx) or public channel name, optionally prefixed with #")),
		mcp.WithString("cursor", mcp.Description("Pagination cursor from a previous response")),
		mcp.WithNumber("limit", mcp.DefaultNumber(50), mcp.Description("Max messages to return")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.GetChannelHistory(ctx,
			req.GetString("channel_id", ""),
			req.GetString("cursor", ""),
			req.GetInt("limit", 50),
		)), nil
	})

	s.AddTool(mcp.NewTool("get_thread_replies",
		mcp.WithDescription("Get messages from a thread (Slack API: conversations.replies)"),
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("Channel ID (Cxxxxxxxxxx) or public channel name, optionally prefixed with #")),
		mcp.WithString("thread_ts", mcp.Required(), mcp.Description("Timestamp of the thread's parent message")),
		mcp.WithString("cursor", mcp.Description("Pagination cursor from a previous response")),
		mcp.WithNumber("limit", mcp.DefaultNumber(50), mcp.Description("Max replies to return")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.GetThreadReplies(ctx,
			req.GetString("channel_id", ""),
			req.GetString("thread_ts", ""),
			req.GetString("cursor", ""),
			req.GetInt("limit", 50),
		)), nil
	})

	s.AddTool(mcp.NewTool("list_users",
		mcp.WithDescription("List workspace users (Slack API: users.list)"),
		mcp.WithString("query", mcp.Description("Case-insensitive substring filter over name/real name/display name")),
		mcp.WithString("filter", mcp.DefaultString("all"), mcp.Description("One of all, active, deleted, bots, humans, admins")),
		mcp.WithBoolean("include_deleted", mcp.DefaultBool(false)),
		mcp.WithBoolean("include_bots", mcp.DefaultBool(true)),
		mcp.WithNumber("limit", mcp.DefaultNumber(1000)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.ListUsers(ctx,
			req.GetString("query", ""),
			req.GetString("filter", "all"),
			req.GetBool("include_deleted", false),
			req.GetBool("include_bots", true),
			req.GetInt("limit", 1000),
		)), nil
	})

	s.AddTool(mcp.NewTool("get_user_profile",
		mcp.WithDescription("Get a single user's profile (Slack API: users.info)"),
		mcp.WithString("user_id", mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.GetUserProfile(ctx, req.GetString("user_id", ""))), nil
	})

	s.AddTool(mcp.NewTool("search_messages",
		mcp.WithDescription("Search messages across the workspace (Slack API: search.messages); requires a user-mode session"),
		mcp.WithString("query", mcp.Required()),
		mcp.WithBoolean("chronological", mcp.DefaultBool(false), mcp.Description("Sort oldest-first instead of by relevance")),
		mcp.WithNumber("page", mcp.DefaultNumber(1)),
		mcp.WithNumber("limit", mcp.DefaultNumber(20)),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.SearchMessages(ctx,
			req.GetString("query", ""),
			req.GetBool("chronological", false),
			req.GetInt("page", 1),
			req.GetInt("limit", 20),
		)), nil
	})

	s.AddTool(mcp.NewTool("get_current_user",
		mcp.WithDescription("Get information about the authenticated user (Slack API: auth.test)"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.GetCurrentUser(ctx)), nil
	})

	s.AddTool(mcp.NewTool("refresh_credentials",
		mcp.WithDescription("Manually refresh the stored user-mode session credentials; requires a user-mode session with SLACK_WORKSPACE set"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.RefreshCredentials(ctx)), nil
	})

	s.AddTool(mcp.NewTool("list_memory_notes",
		mcp.WithDescription("List Markdown notes in the local memory directory (SLACK_MEMORY_DIR)"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.ListMemoryNotes(ctx)), nil
	})

	s.AddTool(mcp.NewTool("read_memory_note",
		mcp.WithDescription("Read one Markdown note from the local memory directory"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note filename, with or without the .md extension")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.ReadMemoryNote(ctx, req.GetString("name", ""))), nil
	})

	s.AddTool(mcp.NewTool("write_memory_note",
		mcp.WithDescription("Create or overwrite one Markdown note in the local memory directory"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note filename, with or without the .md extension")),
		mcp.WithString("content", mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.WriteMemoryNote(ctx, req.GetString("name", ""), req.GetString("content", ""))), nil
	})

	s.AddTool(mcp.NewTool("get_error_log",
		mcp.WithDescription("Read the diagnostic error log, newest first"),
		mcp.WithNumber("limit", mcp.DefaultNumber(100), mcp.Description("Max entries to return")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.GetErrorLog(req.GetInt("limit", 100))), nil
	})

	s.AddTool(mcp.NewTool("clear_error_log",
		mcp.WithDescription("Clear the diagnostic error log"),
		mcp.WithString("cutoff", mcp.Description("ISO-8601 timestamp; entries strictly before it are removed. Omit to clear everything.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toResult(h.ClearErrorLog(req.GetString("cutoff", ""))), nil
	})

	return s
}

func toResult(r *mcptools.Result) *mcp.CallToolResult {
	if r.IsError {
		return mcp.NewToolResultError(r.Content[0].Text)
	}
	res := mcp.NewToolResultText(r.Content[0].Text)
	res.StructuredContent = r.StructuredContent
	return res
}

func loggerMiddleware(logger *zap.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			logger.Debug("tool call", zap.String("tool", req.Params.Name))
			return next(ctx, req)
		}
	}
}
