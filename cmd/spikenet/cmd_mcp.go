package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spikenet-io/spikenet/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run spikenet as an MCP (Model Context Protocol) server.

Exposes the spikenet_store, spikenet_recognize, spikenet_list,
spikenet_delete, spikenet_optimize, and spikenet_stats tools over stdio
transport. Blocks until the client disconnects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "spikenet",
				Version: version,
				Root:    root,
			})
			if err != nil {
				return fmt.Errorf("failed to start MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}
}
