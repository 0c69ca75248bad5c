// Package server exposes scenario execution to MCP clients.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/desktop-scenarios/internal/engine"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	ResultTTL time.Duration
	Version   string
}

// Server wraps the MCP server with the engine it drives.
type Server struct {
	engine  *engine.Engine
	results *ResultCache
	mcp     *mcpserver.MCPServer
}

// New creates an MCP server with the scenario tools registered.
func New(eng *engine.Engine, cfg Config) *Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	s := &Server{
		engine:  eng,
		results: NewResultCache(cfg.ResultTTL),
	}
	s.mcp = mcpserver.NewMCPServer(
		"desktop-scenarios",
		cfg.Version,
		mcpserver.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("run_scenario",
			mcp.WithDescription("Run an allowed scenario by name or alias and wait for it to finish. Fails fast if another scenario is running."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Scenario name from the allowed scenarios list")),
			mcp.WithObject("vars", mcp.Description("Initial variables as a flat string map, substituted into ${name} placeholders")),
			mcp.WithNumber("timeout", mcp.Description("Seconds to wait for the execution slot (default: acquire_timeout)")),
		),
		s.handleRun,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_scenarios",
			mcp.WithDescription("List permission records with their resolved scenario files"),
		),
		s.handleList,
	)

	s.mcp.AddTool(
		mcp.NewTool("validate_scenario",
			mcp.WithDescription("Validate a scenario file against the schema and the current action mapping"),
			mcp.WithString("name", mcp.Description("Scenario name to resolve through the allowed scenarios list")),
			mcp.WithString("path", mcp.Description("Path to a scenario file (.json, .yaml, .yml)")),
		),
		s.handleValidate,
	)

	s.mcp.AddTool(
		mcp.NewTool("cancel_run",
			mcp.WithDescription("Cancel the running scenario at its next checkpoint"),
		),
		s.handleCancel,
	)

	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report whether a scenario is running and the last finished result"),
		),
		s.handleStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_result",
			mcp.WithDescription("Fetch a recent run result by run ID"),
			mcp.WithString("run_id", mcp.Required(), mcp.Description("Run ID returned by run_scenario")),
		),
		s.handleGetResult,
	)
}
