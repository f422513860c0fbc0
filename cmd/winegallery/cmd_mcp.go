package main

import (
	"github.com/spf13/cobra"

	"github.com/HerbHall/winegallery/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalog as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing the tools
search_wines, get_wine, list_facets, quiz_questions and recommend_wines.
Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		return mcp.NewServer(engine, settings.Plugins.Gallery.PageSize, logger).Run(cmd.Context())
	},
}
