package launch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"displaywarp/internal/locator"
	"displaywarp/internal/monitor"
	"displaywarp/internal/profile"
	"displaywarp/internal/status"
	"displaywarp/internal/winapi"
)

// world fakes every collaborator and records the order of side effects.
type world struct {
	monitors []winapi.Monitor
	monErr   error
	windows  []winapi.WindowInfo

	spawnPID uint32
	spawnErr error

	switchErr  error
	restoreErr error
	exitErr    error

	events    []string
	lockRects []winapi.Rect
	moveRects []winapi.Rect
	moveErr   error
}

func (w *world) listMonitors() ([]winapi.Monitor, error) { return w.monitors, w.monErr }
func (w *world) listWindows() ([]winapi.WindowInfo, error) {
	return append([]winapi.WindowInfo(nil), w.windows...), nil
}

func (w *world) spawn(exe string) (uint32, error) {
	w.events = append(w.events, "spawn")
	if w.spawnErr != nil {
		return 0, w.spawnErr
	}
	return w.spawnPID, nil
}

func (w *world) waitExit(pid uint32) error {
	w.events = append(w.events, "wait-exit")
	return w.exitErr
}

func (w *world) MoveOnce(h winapi.HWND, target winapi.Rect) error {
	w.events = append(w.events, "move")
	w.moveRects = append(w.moveRects, target)
	return w.moveErr
}

func (w *world) LaunchLock(ctx context.Context, h winapi.HWND, target winapi.Rect) {
	w.events = append(w.events, "lock")
	w.lockRects = append(w.lockRects, target)
}

func (w *world) Switch(target string) ([]winapi.Monitor, error) {
	w.events = append(w.events, "switch")
	if w.switchErr != nil {
		return nil, w.switchErr
	}
	return append([]winapi.Monitor(nil), w.monitors...), nil
}

func (w *world) Restore(snapshot []winapi.Monitor) error {
	w.events = append(w.events, "restore")
	return w.restoreErr
}

func twoDisplays() []winapi.Monitor {
	return []winapi.Monitor{
		{Device: `\\.\DISPLAY1`, Rect: winapi.Rect{Right: 1920, Bottom: 1080}, Primary: true},
		{Device: `\\.\DISPLAY2`, Rect: winapi.Rect{Left: 1920, Right: 3840, Bottom: 1080}},
	}
}

func newWorld() *world {
	return &world{monitors: twoDisplays(), spawnPID: 4242}
}

func newOrchestrator(w *world) (*Orchestrator, *status.Reporter) {
	loc := locator.New(w.listWindows)
	loc.PIDInterval = time.Millisecond
	loc.NameInterval = time.Millisecond
	rep := status.NewReporter(slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
	o := NewOrchestrator(Deps{
		Monitors:    w.listMonitors,
		Locator:     loc,
		Placer:      w,
		Primary:     w,
		Spawn:       w.spawn,
		WaitExit:    w.waitExit,
		Status:      rep,
		PIDTimeout:  20 * time.Millisecond,
		NameTimeout: 20 * time.Millisecond,
	})
	return o, rep
}

func TestLaunchAbortsWhenMonitorUnresolvable(t *testing.T) {
	w := newWorld()
	o, _ := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		Name:          "game",
		ExePath:       `C:\games\game.exe`,
		TargetMonitor: `\\.\DISPLAY9`,
	})
	if !errors.Is(err, monitor.ErrMonitorNotFound) {
		t.Fatalf("err = %v, want ErrMonitorNotFound", err)
	}
	if len(w.events) != 0 {
		t.Fatalf("nothing should run after a failed resolve, got %v", w.events)
	}
}

func TestLaunchFallsBackToCachedRect(t *testing.T) {
	w := newWorld()
	w.windows = []winapi.WindowInfo{{Handle: 7, PID: 4242, Title: "Game"}}
	o, _ := newOrchestrator(w)

	cached := winapi.Rect{Left: 1920, Right: 3840, Bottom: 1440}
	err := o.Launch(context.Background(), profile.Profile{
		ExePath:           `C:\games\game.exe`,
		TargetMonitor:     `\\.\DISPLAY_GONE`,
		TargetMonitorRect: &cached,
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(w.lockRects) != 1 || w.lockRects[0] != cached {
		t.Fatalf("lock rects = %v, want the cached rect", w.lockRects)
	}
}

func TestLaunchLocksOnTargetByPID(t *testing.T) {
	w := newWorld()
	w.windows = []winapi.WindowInfo{{Handle: 7, PID: 4242, Title: "Game"}}
	o, _ := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:       `C:\games\game.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	want := []string{"spawn", "lock"}
	if len(w.events) != 2 || w.events[0] != want[0] || w.events[1] != want[1] {
		t.Fatalf("events = %v, want %v", w.events, want)
	}
	if w.lockRects[0] != twoDisplays()[1].Rect {
		t.Fatalf("locked on %+v, want DISPLAY2 rect", w.lockRects[0])
	}
}

func TestLaunchByNameTracksChildProcess(t *testing.T) {
	w := newWorld()
	// The launcher pid owns nothing; the real window belongs to a child
	// process found through its executable name.
	w.windows = []winapi.WindowInfo{
		{Handle: 9, PID: 9999, Title: "Diablo IV", ExePath: `C:\games\Diablo IV.exe`,
			Rect: winapi.Rect{Right: 1920, Bottom: 1080}},
	}
	o, _ := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:           `C:\launcher\battlenet.exe`,
		TargetMonitor:     `\\.\DISPLAY2`,
		WindowProcessName: "diablo iv.exe",
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if len(w.lockRects) != 1 {
		t.Fatalf("expected one lock, events = %v", w.events)
	}
}

func TestLaunchWindowTimeoutIsSoftFailure(t *testing.T) {
	w := newWorld()
	o, rep := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:       `C:\games\game.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
	})
	if err != nil {
		t.Fatalf("a missing window must not fail the launch, got %v", err)
	}
	for _, ev := range w.events {
		if ev == "lock" {
			t.Fatal("nothing to lock when no window was found")
		}
	}
	if !strings.Contains(rep.Current(), "not found") {
		t.Fatalf("status = %q, want a window-not-found warning", rep.Current())
	}
}

func TestForcePrimarySwitchSpawnWaitRestore(t *testing.T) {
	w := newWorld()
	o, _ := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:       `C:\games\game.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
		ForcePrimary:  true,
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	want := []string{"switch", "spawn", "wait-exit", "restore"}
	if len(w.events) != len(want) {
		t.Fatalf("events = %v, want %v", w.events, want)
	}
	for i := range want {
		if w.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", w.events, want)
		}
	}
}

func TestForcePrimarySpawnFailureRestoresTopology(t *testing.T) {
	w := newWorld()
	w.spawnErr = errors.New("file not found")
	o, _ := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:       `C:\games\missing.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
		ForcePrimary:  true,
	})
	if err == nil {
		t.Fatal("expected the spawn error to surface")
	}
	want := []string{"switch", "spawn", "restore"}
	if len(w.events) != len(want) {
		t.Fatalf("events = %v, want %v", w.events, want)
	}
	for i := range want {
		if w.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", w.events, want)
		}
	}
}

func TestForcePrimaryUnobservableExitSkipsRestore(t *testing.T) {
	w := newWorld()
	w.exitErr = errors.New("open process: access denied")
	o, rep := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:       `C:\games\game.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
		ForcePrimary:  true,
	})
	if err == nil {
		t.Fatal("expected an error when the exit cannot be observed")
	}
	for _, ev := range w.events {
		if ev == "restore" {
			t.Fatal("must not restore while the process may still be running")
		}
	}
	if !strings.Contains(rep.Current(), "auto-restore") {
		t.Fatalf("status = %q, want an auto-restore warning", rep.Current())
	}
}

func TestForcePrimarySwitchFailureAbortsBeforeSpawn(t *testing.T) {
	w := newWorld()
	w.switchErr = errors.New("display driver rejected the change")
	o, _ := newOrchestrator(w)

	err := o.Launch(context.Background(), profile.Profile{
		ExePath:       `C:\games\game.exe`,
		TargetMonitor: `\\.\DISPLAY2`,
		ForcePrimary:  true,
	})
	if err == nil {
		t.Fatal("expected the switch error to surface")
	}
	if len(w.events) != 1 || w.events[0] != "switch" {
		t.Fatalf("events = %v, want just the failed switch", w.events)
	}
}

func TestMoveWindowValidatesIndex(t *testing.T) {
	w := newWorld()
	o, _ := newOrchestrator(w)

	if err := o.MoveWindow(7, 5); err == nil {
		t.Fatal("expected an out-of-range error")
	}
	if err := o.MoveWindow(7, 1); err != nil {
		t.Fatalf("MoveWindow: %v", err)
	}
	if len(w.moveRects) != 1 || w.moveRects[0] != twoDisplays()[1].Rect {
		t.Fatalf("move rects = %v, want DISPLAY2 rect", w.moveRects)
	}
}
