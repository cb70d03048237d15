// Package bootstrap wires the process-wide singletons together the way
// spec §2's control-flow diagram describes: AuthResolver → CredentialStore
// (user mode) → SlackClientHolder → NameCaches/RefreshManager/Scheduler →
// ToolHandlers. internal/cli's serve and refresh commands call Run once at
// process start.
package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zsxkib/slack-mcp-server/internal/authstore"
	"github.com/zsxkib/slack-mcp-server/internal/cache"
	"github.com/zsxkib/slack-mcp-server/internal/config"
	"github.com/zsxkib/slack-mcp-server/internal/errlog"
	"github.com/zsxkib/slack-mcp-server/internal/mcptools"
	"github.com/zsxkib/slack-mcp-server/internal/memory"
	"github.com/zsxkib/slack-mcp-server/internal/refresh"
	"github.com/zsxkib/slack-mcp-server/internal/slackauth"
)

const (
	checkInterval  = time.Hour
	cacheRateLimit = 50 * time.Millisecond
)

// App bundles every process-wide singleton spec §5 requires, plus the
// handlers built on top of them.
type App struct {
	Auth      config.AuthConfig
	Refresh   config.RefreshConfig
	Log       *errlog.Log
	Store     *authstore.Store
	Holder    *slackauth.Holder
	Channels  *cache.ChannelCache
	Users     *cache.UserCache
	Manager   *refresh.Manager
	Scheduler *refresh.Scheduler
	Memory    *memory.Store
	Tools     *mcptools.Handlers
	Logger    *zap.Logger
}

// Run resolves configuration from the environment and assembles an App.
// It does not start the scheduler or the transport; callers decide that.
func Run(logger *zap.Logger) (*App, error) {
	refreshCfg := config.LoadRefreshConfig()

	resolver := &config.Resolver{}
	auth, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}

	log := errlog.New(config.ErrorLogPath(), logger)

	store := authstore.New(refreshCfg.CredentialsPath)
	if auth.IsUser() && !store.Exists() {
		if _, err := store.CreateInitial(auth.Token, auth.Cookie, refreshCfg.Workspace); err != nil {
			log.Append(errlog.Entry{Level: errlog.LevelError, Component: "bootstrap", Code: "STORAGE_ERROR", Message: err.Error()})
		}
	}

	holder := slackauth.NewHolder(auth)

	limiter := rate.NewLimiter(rate.Every(cacheRateLimit), 1)
	channels := cache.NewChannelCache(holder, limiter)
	users := cache.NewUserCache(holder, limiter)

	manager := refresh.NewManager(store, holder, refreshCfg.Workspace, refreshCfg.IntervalDays, log)
	scheduler := refresh.NewScheduler(manager, checkInterval)

	mem := memory.New(config.MemoryDir())

	tools := mcptools.New(holder, channels, users, auth, refreshCfg, scheduler, manager, log, mem)

	return &App{
		Auth:      auth,
		Refresh:   refreshCfg,
		Log:       log,
		Store:     store,
		Holder:    holder,
		Channels:  channels,
		Users:     users,
		Manager:   manager,
		Scheduler: scheduler,
		Memory:    mem,
		Tools:     tools,
		Logger:    logger,
	}, nil
}

// StartScheduler starts the background refresh tick if user-mode refresh
// is configured and enabled, per spec §4.7.
func (a *App) StartScheduler(ctx context.Context) {
	a.Scheduler.Start(ctx, a.Auth.IsUser() && a.Refresh.Workspace != "" && a.Refresh.Enabled)
}
