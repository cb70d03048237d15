package mcptools

import (
	"context"

	"github.com/zsxkib/slack-mcp-server/internal/cache"
	"github.com/zsxkib/slack-mcp-server/internal/config"
	"github.com/zsxkib/slack-mcp-server/internal/errlog"
	"github.com/zsxkib/slack-mcp-server/internal/memory"
	"github.com/zsxkib/slack-mcp-server/internal/refresh"
	"github.com/zsxkib/slack-mcp-server/internal/slackapi"
)

// clientHolder is the slice of *slackauth.Holder every handler actually
// calls: resolve the currently-bound client, fresh, on every request
// (spec §9). Declared here so tests can substitute a fake client without
// standing up a real Holder/AuthConfig.
type clientHolder interface {
	Get() slackapi.API
}

// Handlers holds the process-wide dependencies every tool handler resolves
// against: the hot-swappable client holder, both name caches, the fixed
// auth mode, and the refresh scheduler. Tool handlers are methods on this
// struct so they share these singletons exactly the way spec §9 requires
// (resolve the client per call, never cache a reference).
type Handlers struct {
	Holder     clientHolder
	Channels   *cache.ChannelCache
	Users      *cache.UserCache
	Auth       config.AuthConfig
	RefreshCfg config.RefreshConfig
	Scheduler  *refresh.Scheduler
	Manager    *refresh.Manager
	Log        *errlog.Log
	Memory     *memory.Store
}

func New(holder clientHolder, channels *cache.ChannelCache, users *cache.UserCache, auth config.AuthConfig, refreshCfg config.RefreshConfig, scheduler *refresh.Scheduler, manager *refresh.Manager, log *errlog.Log, mem *memory.Store) *Handlers {
	return &Handlers{
		Holder:     holder,
		Channels:   channels,
		Users:      users,
		Auth:       auth,
		RefreshCfg: refreshCfg,
		Scheduler:  scheduler,
		Manager:    manager,
		Log:        log,
		Memory:     mem,
	}
}

// isSearchAvailable: search_messages requires an active User-mode client,
// per spec §4.8 point 2.
func (h *Handlers) isSearchAvailable() bool {
	return h.Auth.IsUser()
}

// isRefreshAvailable: refresh_credentials requires User mode, a configured
// workspace, and the operator not having disabled it, per spec §4.8/§4.9.
func (h *Handlers) isRefreshAvailable() bool {
	return h.Auth.IsUser() && h.RefreshCfg.Workspace != "" && h.RefreshCfg.Enabled
}

func (h *Handlers) logError(ctx context.Context, tool string, e toolError) {
	if h.Log == nil {
		return
	}
	h.Log.Append(errlog.Entry{
		Level:     errlog.LevelError,
		Component: "mcptools",
		Code:      e.Code,
		Message:   e.Message,
		Tool:      tool,
		Retryable: e.Retryable,
	})
}
