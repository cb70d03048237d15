// Package version holds build metadata injected at link time via
// -ldflags, the way jflowers-get-out's cmd/get-out/main.go does it.
package version

import "fmt"

var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)

// String renders the full build-info line shown by the version command
// and the root command's --version flag.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, CommitHash, BuildTime)
}
