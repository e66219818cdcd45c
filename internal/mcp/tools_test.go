package mcp

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"displaywarp/internal/profile"
	"displaywarp/internal/status"
	"displaywarp/internal/winapi"
)

type toolFixture struct {
	server *Server
	store  *profile.Store
	rep    *status.Reporter

	mu       sync.Mutex
	moves    []MoveWindowInput
	launched chan string
}

func newToolFixture(t *testing.T) *toolFixture {
	t.Helper()

	store, err := profile.NewStore(filepath.Join(t.TempDir(), "profiles.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	f := &toolFixture{store: store, rep: status.NewReporter(logger), launched: make(chan string, 4)}

	f.server = NewServer(Deps{
		Monitors: func() ([]winapi.Monitor, error) {
			return []winapi.Monitor{
				{Device: `\\.\DISPLAY1`, Rect: winapi.Rect{Right: 1920, Bottom: 1080}, Primary: true},
				{Device: `\\.\DISPLAY2`, Rect: winapi.Rect{Left: 1920, Right: 3840, Bottom: 1080}},
			}, nil
		},
		Windows: func() ([]winapi.WindowInfo, error) {
			return []winapi.WindowInfo{
				{Handle: 7, PID: 11, Title: "Game", ExePath: `C:\games\game.exe`},
				{Handle: 8, PID: 12, Title: ""},
			}, nil
		},
		Move: func(h winapi.HWND, idx int) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			if idx > 1 {
				return errors.New("monitor index out of range")
			}
			f.moves = append(f.moves, MoveWindowInput{HWND: uint64(h), MonitorIndex: idx})
			return nil
		},
		Launch: func(ctx context.Context, p profile.Profile) error {
			f.launched <- p.Name
			return nil
		},
		Profiles: store,
		Status:   f.rep,
		Logger:   logger,
	})
	return f
}

func TestListMonitorsTool(t *testing.T) {
	f := newToolFixture(t)

	_, out, err := f.server.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("list_monitors: %v", err)
	}
	if len(out.Monitors) != 2 {
		t.Fatalf("monitors = %+v, want 2", out.Monitors)
	}
	if out.Monitors[1].Index != 1 || out.Monitors[1].DeviceName != `\\.\DISPLAY2` {
		t.Fatalf("second entry = %+v", out.Monitors[1])
	}
	if !out.Monitors[0].Primary || out.Monitors[1].Primary {
		t.Fatal("primary flag should follow DISPLAY1 only")
	}
}

func TestListWindowsToolFiltersUntitled(t *testing.T) {
	f := newToolFixture(t)

	_, out, err := f.server.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].HWND != 7 {
		t.Fatalf("windows = %+v, want only the titled one", out.Windows)
	}
	if out.Windows[0].Label != "game.exe — Game" {
		t.Fatalf("label = %q", out.Windows[0].Label)
	}
}

func TestMoveWindowTool(t *testing.T) {
	f := newToolFixture(t)

	_, out, err := f.server.handleMoveWindow(context.Background(), nil, MoveWindowInput{HWND: 7, MonitorIndex: 1})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if !out.Moved {
		t.Fatal("want Moved = true")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.moves) != 1 || f.moves[0].HWND != 7 || f.moves[0].MonitorIndex != 1 {
		t.Fatalf("moves = %+v", f.moves)
	}
}

func TestMoveWindowToolSurfacesErrors(t *testing.T) {
	f := newToolFixture(t)

	_, _, err := f.server.handleMoveWindow(context.Background(), nil, MoveWindowInput{HWND: 7, MonitorIndex: 9})
	if err == nil {
		t.Fatal("want an error for a bad monitor index")
	}
}

func TestLaunchProfileToolRunsInBackground(t *testing.T) {
	f := newToolFixture(t)
	if err := f.store.Add(profile.Profile{Name: "game", ExePath: `C:\games\game.exe`, TargetMonitor: `\\.\DISPLAY2`}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, out, err := f.server.handleLaunchProfile(context.Background(), nil, LaunchProfileInput{Name: "game"})
	if err != nil {
		t.Fatalf("launch_profile: %v", err)
	}
	if !out.Started {
		t.Fatal("want Started = true")
	}
	select {
	case name := <-f.launched:
		if name != "game" {
			t.Fatalf("launched %q, want game", name)
		}
	case <-time.After(time.Second):
		t.Fatal("launch never ran")
	}
}

func TestLaunchProfileToolRejectsUnknownName(t *testing.T) {
	f := newToolFixture(t)

	_, _, err := f.server.handleLaunchProfile(context.Background(), nil, LaunchProfileInput{Name: "nope"})
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListProfilesAndStatusTools(t *testing.T) {
	f := newToolFixture(t)
	if err := f.store.Add(profile.Profile{Name: "game", ExePath: `C:\games\game.exe`, TargetMonitor: `\\.\DISPLAY2`, ForcePrimary: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	f.rep.Set("Launching game...")

	_, profiles, err := f.server.handleListProfiles(context.Background(), nil, ListProfilesInput{})
	if err != nil {
		t.Fatalf("list_profiles: %v", err)
	}
	if len(profiles.Profiles) != 1 || !profiles.Profiles[0].ForcePrimary {
		t.Fatalf("profiles = %+v", profiles.Profiles)
	}

	_, st, err := f.server.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if st.Current != "Launching game..." {
		t.Fatalf("current = %q", st.Current)
	}
	if len(st.History) == 0 {
		t.Fatal("history should contain the set message")
	}
}
