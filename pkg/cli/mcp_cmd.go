package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlrickert/pickup/pkg/mcp"
)

func NewMCPCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve read-only mirror queries over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := deps.newPickup(cmd, syncFlags{retries: 1})
			if err != nil {
				return err
			}
			return mcp.Serve(cmd.Context(), p, Version)
		},
	}
	return cmd
}
