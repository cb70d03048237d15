// Package cli implements the command-line interface for the server
// binary, in the command-per-file shape jflowers-get-out's internal/cli
// package uses.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/zsxkib/slack-mcp-server/pkg/version"
)

var debugMode bool

var rootCmd = &cobra.Command{
	Use:   "slack-mcp-server",
	Short: "Read-only Slack bridge exposed as MCP tools",
	Long: `slack-mcp-server exposes a Slack workspace to an AI client through a
JSON-RPC tool protocol: list channels, read channel history and thread
replies, list users and read profiles, search messages, and (user-mode
only) refresh the stored session credentials.

  slack-mcp-server serve     # start the tool server over stdio
  slack-mcp-server refresh   # trigger a manual credential refresh
  slack-mcp-server version   # print build info`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
