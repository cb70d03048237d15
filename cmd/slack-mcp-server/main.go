// slack-mcp-server: a read-only bridge that exposes a Slack workspace to
// an AI client through a JSON-RPC tool protocol.
package main

import (
	"os"

	"github.com/zsxkib/slack-mcp-server/internal/cli"
	"github.com/zsxkib/slack-mcp-server/pkg/version"
)

// Build-time variables injected via -ldflags.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildTime    = "unknown"
)

func main() {
	version.Version = buildVersion
	version.CommitHash = buildCommit
	version.BuildTime = buildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
