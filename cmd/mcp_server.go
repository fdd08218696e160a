package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/i3layout/internal/i3"
	"github.com/mj1618/i3layout/internal/version"
)

// mcpServer wraps the MCP server with the session cache and the runner
// used to apply sessions.
type mcpServer struct {
	cache  *mcpPlanCache
	runner *i3.Runner
	runMu  sync.Mutex
	mcp    *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// newMCPServer creates and configures an MCP server with all i3layout tools.
func newMCPServer(cfg MCPConfig) (*mcpServer, error) {
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache TTL must not be negative, got %s", cfg.CacheTTL)
	}
	s := &mcpServer{
		cache:  newMCPPlanCache(cfg.CacheTTL),
		runner: newRunner(),
	}

	s.mcp = mcpserver.NewMCPServer(
		"i3layout",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
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

// sessionOptions are the arguments every session-based tool accepts.
func sessionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("session", mcp.Description("Path of a session file (YAML or JSON)")),
		mcp.WithString("source", mcp.Description("Inline session file contents, used instead of session")),
		mcp.WithArray("workspaces", mcp.Description("Only use these workspaces"), mcp.WithStringItems()),
	}
}

func sessionTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, sessionOptions()...)
	return mcp.NewTool(name, append(all, opts...)...)
}

func (s *mcpServer) registerTools() {
	// render
	s.mcp.AddTool(
		sessionTool("render",
			"Render the i3 append_layout JSON of each workspace in a session",
			mcp.WithNumber("indent", mcp.Description("Indent JSON by this many spaces (0 = compact)")),
			mcp.WithBoolean("strip-marks", mcp.Description("Remove all marks from the layout")),
		),
		s.handleRender,
	)

	// commands
	s.mcp.AddTool(
		sessionTool("commands", "List the commands a session starts, in order"),
		s.handleCommands,
	)

	// script
	s.mcp.AddTool(
		sessionTool("script",
			"Export a session as a standalone bash script using i3-msg",
			mcp.WithBoolean("skip-layout", mcp.Description("Do not append any layout")),
			mcp.WithBoolean("skip-commands", mcp.Description("Do not start any application")),
			mcp.WithBoolean("no-workspace-switching", mcp.Description("Append layouts to the focused workspace")),
		),
		s.handleScript,
	)

	// run
	s.mcp.AddTool(
		sessionTool("run",
			"Apply a session to the running i3: append layouts, then start applications",
			mcp.WithBoolean("skip-layout", mcp.Description("Do not append any layout")),
			mcp.WithBoolean("skip-commands", mcp.Description("Do not start any application")),
			mcp.WithBoolean("no-workspace-switching", mcp.Description("Append layouts to the focused workspace")),
		),
		s.handleRun,
	)

	// match
	s.mcp.AddTool(
		sessionTool("match",
			"Test window attributes against the swallow criteria of every placeholder in a session",
			mcp.WithString("class", mcp.Description("Window class")),
			mcp.WithString("instance", mcp.Description("Window instance")),
			mcp.WithString("title", mcp.Description("Window title")),
			mcp.WithString("machine", mcp.Description("Client machine")),
			mcp.WithString("window_role", mcp.Description("Window role")),
		),
		s.handleMatch,
	)

	// import
	s.mcp.AddTool(
		mcp.NewTool("import",
			mcp.WithDescription("Convert i3 layout JSON (e.g. i3-save-tree output) into a session file or canonical layout JSON"),
			mcp.WithString("layout", mcp.Description("Layout JSON; comments and several objects are accepted"), mcp.Required()),
			mcp.WithString("to", mcp.Description("Output: session, json (default: session)")),
			mcp.WithString("workspace", mcp.Description("Workspace name for the session file")),
			mcp.WithBoolean("strip-marks", mcp.Description("Remove all marks")),
			mcp.WithNumber("indent", mcp.Description("JSON indentation for to=json (default: 2)")),
		),
		s.handleImport,
	)

	// pattern
	s.mcp.AddTool(
		mcp.NewTool("pattern",
			mcp.WithDescription("Parse an anchored swallow regex and render it for i3 (PCRE) and Go (RE2)"),
			mcp.WithString("regex", mcp.Description("Anchored regex, e.g. '^org\\.mozilla\\.firefox$'"), mcp.Required()),
			mcp.WithString("test", mcp.Description("Value to match against the pattern")),
		),
		s.handlePattern,
	)

	// presets
	s.mcp.AddTool(
		mcp.NewTool("presets",
			mcp.WithDescription("List the application presets usable in session files"),
		),
		s.handlePresets,
	)
}
