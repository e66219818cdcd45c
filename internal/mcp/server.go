// Package mcp exposes monitors, windows and launch profiles as MCP tools so
// an assistant can drive placements over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"displaywarp/internal/locator"
	"displaywarp/internal/monitor"
	"displaywarp/internal/profile"
	"displaywarp/internal/status"
	"displaywarp/internal/winapi"
)

const (
	ServerName    = "displaywarp"
	ServerVersion = "0.1.0"
)

// Deps collects the server's collaborators.
type Deps struct {
	Monitors monitor.Lister
	Windows  locator.WindowLister
	Move     func(h winapi.HWND, monitorIndex int) error
	Launch   func(ctx context.Context, p profile.Profile) error
	Profiles *profile.Store
	Status   *status.Reporter
	Logger   *slog.Logger
}

// Server is the MCP server for window and launch control.
type Server struct {
	mcpServer *mcpsdk.Server
	deps      Deps
	logger    *slog.Logger
}

// NewServer creates the server and registers its tools.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{deps: deps, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the connected monitors with their index, device name, virtual-screen rectangle and primary flag.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the visible titled top-level windows with their handle, owning process and display label.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move an existing window onto a monitor by index in a single flicker-free operation, preserving its maximized state.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_profiles",
		Description: "List the saved launch profiles: executable, target monitor, and whether they force-primary or keep a persistent monitor.",
	}, s.handleListProfiles)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_profile",
		Description: "Launch a saved profile in the background: start its executable, wait for its window and lock it to the profile's monitor. Returns immediately; progress is visible via get_status.",
	}, s.handleLaunchProfile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the current launch status message and the recent status history.",
	}, s.handleGetStatus)
}
