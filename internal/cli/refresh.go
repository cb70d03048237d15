package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zsxkib/slack-mcp-server/internal/bootstrap"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Manually trigger a credential refresh",
	Long: `Trigger an immediate refresh of the stored user-mode session
credentials, bypassing the scheduler's due-check. Fails with
REFRESH_NOT_AVAILABLE if the active auth isn't user-mode or SLACK_WORKSPACE
isn't set.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	app, err := bootstrap.Run(logger)
	if err != nil {
		return err
	}

	if !app.Auth.IsUser() {
		fmt.Println("refresh failed: REFRESH_NOT_AVAILABLE - refresh is only for user auth (retryable=false)")
		return nil
	}
	if app.Refresh.Workspace == "" {
		fmt.Println("refresh failed: REFRESH_NOT_AVAILABLE - ensure SLACK_WORKSPACE is set (retryable=false)")
		return nil
	}

	if refreshErr := app.Scheduler.TriggerManual(context.Background()); refreshErr != nil {
		fmt.Printf("refresh failed: %s - %s (retryable=%t)\n", refreshErr.Code, refreshErr.Message, refreshErr.Retryable())
		return nil
	}

	state := app.Manager.State()
	fmt.Printf("refresh succeeded: refreshCount=%d lastSuccess=%s\n", state.RefreshCount, state.LastSuccess.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
