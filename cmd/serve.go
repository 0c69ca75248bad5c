package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/desktop-scenarios/internal/server"
	"github.com/mj1618/desktop-scenarios/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing scenario tools",
	Long: `Start a Model Context Protocol (MCP) server that lets agents list, validate,
run and cancel scenarios. Runs share the execution slot with every other
entry point, so only one scenario runs at a time.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  desktop-scenarios serve
  desktop-scenarios serve --transport streamable-http --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Duration("result-ttl", 10*time.Minute, "How long finished results stay available to get_result (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	ttl, _ := cmd.Flags().GetDuration("result-ttl")

	// The stdio transport owns stdin; forms and click confirmations cannot
	// read from it.
	a, err := newApp(cmd, transport != "stdio")
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	cfg := server.Config{
		Transport: transport,
		Port:      port,
		ResultTTL: ttl,
		Version:   version.Version,
	}
	a.log.Info("mcp server starting", "transport", transport)
	return server.New(a.engine, cfg).Serve(cfg)
}
