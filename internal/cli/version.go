package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zsxkib/slack-mcp-server/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
