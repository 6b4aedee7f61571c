package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/repopulse/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the repopulse MCP server",
	Long:  `Launch an MCP server on stdio that allows AI agents to build repository dashboards via standard tools.`,
	// Logs already go to stderr, so stdout stays reserved for the protocol.
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, svc)
	},
}
