package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"displaywarp/internal/locator"
	"displaywarp/internal/winapi"
)

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	monitors, err := s.deps.Monitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("enumerate monitors: %w", err)
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorEntry, 0, len(monitors))}
	for i, m := range monitors {
		out.Monitors = append(out.Monitors, MonitorEntry{
			Index:      i,
			DeviceName: m.Device,
			Rect:       m.Rect,
			Primary:    m.Primary,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := locator.ListWindows(s.deps.Windows)
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("enumerate windows: %w", err)
	}
	out := ListWindowsOutput{Windows: make([]WindowEntry, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowEntry{
			HWND:    uint64(w.Handle),
			PID:     w.PID,
			Title:   w.Title,
			ExePath: w.ExePath,
			Label:   w.Label(),
		})
	}
	return nil, out, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	if err := s.deps.Move(winapi.HWND(args.HWND), args.MonitorIndex); err != nil {
		return nil, MoveWindowOutput{}, err
	}
	s.logger.Info("mcp: window moved", "hwnd", args.HWND, "monitor", args.MonitorIndex)
	return nil, MoveWindowOutput{
		Moved:   true,
		Message: fmt.Sprintf("Moved HWND %d to monitor %d", args.HWND, args.MonitorIndex),
	}, nil
}

func (s *Server) handleListProfiles(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListProfilesInput) (*mcpsdk.CallToolResult, ListProfilesOutput, error) {
	profiles := s.deps.Profiles.Snapshot()
	out := ListProfilesOutput{Profiles: make([]ProfileEntry, 0, len(profiles))}
	for _, p := range profiles {
		out.Profiles = append(out.Profiles, ProfileEntry{
			Name:              p.Name,
			ExePath:           p.ExePath,
			TargetMonitor:     p.TargetMonitor,
			ForcePrimary:      p.ForcePrimary,
			PersistentMonitor: p.PersistentMonitor,
		})
	}
	return nil, out, nil
}

func (s *Server) handleLaunchProfile(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchProfileInput) (*mcpsdk.CallToolResult, LaunchProfileOutput, error) {
	p, err := s.deps.Profiles.Get(args.Name)
	if err != nil {
		return nil, LaunchProfileOutput{}, fmt.Errorf("profile %q: %w", args.Name, err)
	}

	// A launch can outlive the tool call by hours (force-primary waits for
	// the process to exit), so it runs detached from the request context.
	go func() {
		if err := s.deps.Launch(context.Background(), p); err != nil {
			s.logger.Warn("mcp: launch failed", "profile", p.Name, "error", err)
		}
	}()

	return nil, LaunchProfileOutput{
		Started: true,
		Message: fmt.Sprintf("Launch of %q started", p.Name),
	}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	return nil, GetStatusOutput{
		Current: s.deps.Status.Current(),
		History: s.deps.Status.History(),
	}, nil
}
