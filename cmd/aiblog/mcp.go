package main

import (
	"github.com/spf13/cobra"

	"aiblog/internal/blog"
	"aiblog/internal/mcpserver"
)

func newMCPCmd(e *env) *cobra.Command {
	var httpAddr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the posts as MCP tools over stdio or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpserver.NewServer(newStore(e, true), blog.ParseSearchFields(e.cfg.Search.Fields))
			if httpAddr != "" {
				e.log.WithField("addr", httpAddr).Info("starting MCP server over HTTP")
				return mcpserver.ServeHTTP(s, httpAddr)
			}
			e.log.Info("starting MCP server on stdio")
			return mcpserver.ServeStdio(s)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP at this address instead of stdio")
	return cmd
}
