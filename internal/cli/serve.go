package cli

import (
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zsxkib/slack-mcp-server/internal/bootstrap"
	"github.com/zsxkib/slack-mcp-server/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tool server over stdio",
	Long: `Start the Slack bridge's JSON-RPC tool server. Reads requests from
stdin and writes responses to stdout; all logging goes to stderr, per the
transport invariant — stdout carries protocol frames only.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	app, err := bootstrap.Run(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.StartScheduler(ctx)
	defer app.Scheduler.Stop()

	logger.Info("starting slack-mcp-server", zap.Bool("userMode", app.Auth.IsUser()))

	s := mcpserver.New(app.Tools, logger)
	return server.ServeStdio(s)
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debugMode {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
