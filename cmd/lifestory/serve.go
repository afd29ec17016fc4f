package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/messixieziyi/life-story/internal/transport/httpapi"
	"github.com/messixieziyi/life-story/internal/transport/mcpserver"
)

func newServeCmd() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve your journal to MCP clients over stdio, or over HTTP",
		Long: `Without flags, serve speaks the Model Context Protocol on stdin/stdout so
assistants can read and record events. With --http it serves a local JSON API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			httpMode := cmd.Flags().Changed("http")

			return withInternalDeps(ctx, recallOptional, func(d *internalDeps) error {
				if httpMode {
					srv := httpapi.NewServer(httpapi.Config{Addr: httpAddr, Logger: d.logger}, d.Journal, d.Links, d.Recall)
					fmt.Fprintf(os.Stderr, "Listening on http://%s\n", httpAddr)
					return srv.Run(ctx)
				}

				srv := mcpserver.NewServer(version, d.Journal, d.Links, d.Recall, d.logger)
				return srv.ServeStdio()
			})
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", httpapi.DefaultAddr, "Serve the HTTP API on this address instead of MCP")
	cmd.Flags().Lookup("http").NoOptDefVal = httpapi.DefaultAddr
	return cmd
}
