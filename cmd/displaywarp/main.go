package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"displaywarp/internal/audio"
	"displaywarp/internal/bridge"
	"displaywarp/internal/config"
	"displaywarp/internal/daemon"
	"displaywarp/internal/launch"
	"displaywarp/internal/locator"
	"displaywarp/internal/mcp"
	"displaywarp/internal/monitor"
	"displaywarp/internal/placement"
	"displaywarp/internal/profile"
	"displaywarp/internal/status"
	"displaywarp/internal/tray"
	"displaywarp/internal/winapi"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "monitors":
		os.Exit(runMonitors())
	case "windows":
		os.Exit(runWindows())
	case "launch":
		os.Exit(runLaunch(os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "profile":
		os.Exit(runProfile(os.Args[2:]))
	case "primary":
		os.Exit(runPrimary(os.Args[2:]))
	case "daemon":
		os.Exit(runDaemon())
	case "bridge":
		os.Exit(runBridge())
	case "mcp":
		os.Exit(runMCP())
	case "tray":
		os.Exit(runTray())
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: displaywarp <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  monitors            List connected monitors")
	fmt.Fprintln(w, "  windows             List visible windows")
	fmt.Fprintln(w, "  launch <name>       Launch a saved profile and lock its window")
	fmt.Fprintln(w, "  move                Move an existing window to a monitor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  profile add         Save a launch profile")
	fmt.Fprintln(w, "  profile update      Overwrite a saved profile")
	fmt.Fprintln(w, "  profile list        List saved profiles")
	fmt.Fprintln(w, "  profile remove      Delete a saved profile")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  primary <device>    Make a monitor primary until interrupted")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  daemon              Run the watcher and WebSocket bridge (foreground)")
	fmt.Fprintln(w, "  bridge              Run only the WebSocket bridge")
	fmt.Fprintln(w, "  mcp                 Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  tray                Run the daemon with a system tray icon")
}

// app wires the production dependency graph once per command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *profile.Store
	rep    *status.Reporter
	loc    *locator.Locator
	engine *placement.Engine
	orch   *launch.Orchestrator
}

// displayAPI adapts the display-configuration calls to the switcher's
// boundary.
type displayAPI struct{}

func (displayAPI) ApplyPosition(device string, x, y int32, primary bool) error {
	return winapi.ApplyPosition(device, x, y, primary)
}

func (displayAPI) Commit() error { return winapi.CommitDisplayChanges() }

func newApp(daemonMode bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	var out io.Writer = os.Stderr
	if daemonMode && cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxFiles,
		}
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	path, err := profile.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := profile.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	rep := status.NewReporter(logger)
	loc := locator.New(winapi.VisibleWindows)
	engine := placement.NewEngine(placement.NativeOps{})
	switcher := monitor.NewPrimarySwitcher(winapi.EnumMonitors, displayAPI{})

	orch := launch.NewOrchestrator(launch.Deps{
		Monitors:    winapi.EnumMonitors,
		Locator:     loc,
		Placer:      engine,
		Primary:     switcher,
		Audio:       audio.Unavailable{},
		Spawn:       launch.ExecSpawner,
		WaitExit:    winapi.WaitForProcessExit,
		Status:      rep,
		PIDTimeout:  cfg.PIDTimeout(),
		NameTimeout: cfg.NameTimeout(),
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		rep:    rep,
		loc:    loc,
		engine: engine,
		orch:   orch,
	}, nil
}

func runMonitors() int {
	monitors, err := winapi.EnumMonitors()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to enumerate monitors: %v\n", err)
		return 1
	}
	for i, m := range monitors {
		primary := ""
		if m.Primary {
			primary = "  [primary]"
		}
		fmt.Printf("%d: %s  %dx%d @ (%d,%d)%s\n",
			i, m.Device, m.Rect.Width(), m.Rect.Height(), m.Rect.Left, m.Rect.Top, primary)
	}
	return 0
}

func runWindows() int {
	windows, err := locator.ListWindows(winapi.VisibleWindows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to enumerate windows: %v\n", err)
		return 1
	}
	for _, w := range windows {
		fmt.Printf("%8d  %s\n", uint64(w.Handle), w.Label())
	}
	return 0
}

func runLaunch(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: displaywarp launch <profile-name>")
		return 2
	}

	a, err := newApp(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	p, err := a.store.Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Profile %q: %v\n", args[0], err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := a.orch.Launch(ctx, p); err != nil {
		fmt.Fprintf(os.Stderr, "Launch failed: %v\n", err)
		return 1
	}
	fmt.Println(a.rep.Current())
	return 0
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	hwnd := fs.Uint64("hwnd", 0, "window handle (see 'displaywarp windows')")
	idx := fs.Int("monitor", -1, "target monitor index (see 'displaywarp monitors')")
	fs.Parse(args)

	if *hwnd == 0 || *idx < 0 {
		fmt.Fprintln(os.Stderr, "Usage: displaywarp move -hwnd <handle> -monitor <index>")
		return 2
	}

	a, err := newApp(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := a.orch.MoveWindow(winapi.HWND(*hwnd), *idx); err != nil {
		fmt.Fprintf(os.Stderr, "Move failed: %v\n", err)
		return 1
	}
	return 0
}

func runProfile(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: displaywarp profile <add|update|list|remove> [options]")
		return 2
	}

	a, err := newApp(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch args[0] {
	case "add":
		return runProfileAdd(a, args[1:], false)
	case "update":
		return runProfileAdd(a, args[1:], true)
	case "list":
		for _, p := range a.store.Snapshot() {
			flags := ""
			if p.ForcePrimary {
				flags += "  [force-primary]"
			}
			if p.PersistentMonitor {
				flags += "  [persistent]"
			}
			fmt.Printf("%-20s %s -> %s%s\n", p.Name, p.ExePath, p.TargetMonitor, flags)
		}
		return 0
	case "remove":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: displaywarp profile remove <name>")
			return 2
		}
		if err := a.store.Remove(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Remove failed: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown profile command: %s\n", args[0])
		return 2
	}
}

func runProfileAdd(a *app, args []string, update bool) int {
	fs := flag.NewFlagSet("profile add", flag.ExitOnError)
	name := fs.String("name", "", "profile name")
	exe := fs.String("exe", "", "path to the executable")
	mon := fs.String("monitor", "", `target monitor device, e.g. \\.\DISPLAY2`)
	proc := fs.String("window-process", "", "executable owning the window when different from the launched one")
	forcePrimary := fs.Bool("force-primary", false, "make the target monitor primary while the app runs")
	persistent := fs.Bool("persistent", false, "keep enforcing the monitor while the app runs")
	audioDev := fs.String("audio-device", "", "audio output device id to switch to at launch")
	fs.Parse(args)

	if *name == "" || *exe == "" || *mon == "" {
		fmt.Fprintln(os.Stderr, "Usage: displaywarp profile add -name <n> -exe <path> -monitor <device> [options]")
		return 2
	}

	p := profile.Profile{
		Name:              *name,
		ExePath:           *exe,
		TargetMonitor:     *mon,
		WindowProcessName: *proc,
		ForcePrimary:      *forcePrimary,
		PersistentMonitor: *persistent,
		AudioDeviceID:     *audioDev,
	}
	// Cache the monitor's current rectangle so the profile keeps working if
	// the device identifier changes later.
	if monitors, err := winapi.EnumMonitors(); err == nil {
		if rect, ok := monitor.ResolveRect(monitors, *mon); ok {
			p.TargetMonitorRect = &rect
		}
	}

	var err error
	if update {
		err = a.store.Update(*name, p)
	} else {
		err = a.store.Add(p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Save failed: %v\n", err)
		return 1
	}
	fmt.Printf("Profile %q saved.\n", *name)
	return 0
}

func runPrimary(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, `Usage: displaywarp primary <device>  (e.g. \\.\DISPLAY2)`)
		return 2
	}

	switcher := monitor.NewPrimarySwitcher(winapi.EnumMonitors, displayAPI{})
	snapshot, err := switcher.Switch(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Primary switch failed: %v\n", err)
		return 1
	}
	fmt.Printf("%s is now primary. Press Ctrl+C to restore the layout.\n", args[0])

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	if err := switcher.Restore(snapshot); err != nil {
		fmt.Fprintf(os.Stderr, "Restore failed: %v\n", err)
		return 1
	}
	fmt.Println("Layout restored.")
	return 0
}

func runDaemon() int {
	a, err := newApp(true)
	if err != nil {
		log.Printf("Failed to start daemon: %v", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("displaywarp daemon started")
	runDaemonServices(ctx, a)
	a.logger.Info("displaywarp daemon stopped")
	return 0
}

// runDaemonServices runs the watcher, the profile file watcher and the
// bridge until ctx is cancelled.
func runDaemonServices(ctx context.Context, a *app) {
	watcher := daemon.NewWatcher(
		daemon.WatcherConfig{Interval: a.cfg.WatchInterval(), Logger: a.logger},
		a.store.Snapshot,
		winapi.EnumMonitors,
		a.loc,
		a.engine,
	)

	srv := bridge.NewServer(a.cfg.BridgeAddr, a.logger, winapi.EnumMonitors, winapi.VisibleWindows, a.orch.MoveWindow)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		watcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := a.store.Watch(ctx, a.logger, func() {
			a.logger.Info("profiles reloaded from disk")
		}); err != nil {
			a.logger.Warn("profile watch unavailable", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			a.logger.Error("bridge stopped", "error", err)
		}
	}()
	wg.Wait()
}

func runBridge() int {
	a, err := newApp(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := bridge.NewServer(a.cfg.BridgeAddr, a.logger, winapi.EnumMonitors, winapi.VisibleWindows, a.orch.MoveWindow)
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Bridge failed: %v\n", err)
		return 1
	}
	return 0
}

func runMCP() int {
	// Stdout is the MCP transport; all logging must stay on stderr.
	a, err := newApp(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	srv := mcp.NewServer(mcp.Deps{
		Monitors: winapi.EnumMonitors,
		Windows:  winapi.VisibleWindows,
		Move:     a.orch.MoveWindow,
		Launch:   a.orch.Launch,
		Profiles: a.store,
		Status:   a.rep,
		Logger:   a.logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server failed: %v\n", err)
		return 1
	}
	return 0
}

func runTray() int {
	a, err := newApp(true)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	// The watcher can be paused from the menu; the bridge and the profile
	// watcher run for the whole session.
	var mu sync.Mutex
	watcherCtx, watcherCancel := context.WithCancel(rootCtx)
	watcherOn := true
	startWatcher := func(ctx context.Context) {
		w := daemon.NewWatcher(
			daemon.WatcherConfig{Interval: a.cfg.WatchInterval(), Logger: a.logger},
			a.store.Snapshot,
			winapi.EnumMonitors,
			a.loc,
			a.engine,
		)
		go w.Run(ctx)
	}
	startWatcher(watcherCtx)

	srv := bridge.NewServer(a.cfg.BridgeAddr, a.logger, winapi.EnumMonitors, winapi.VisibleWindows, a.orch.MoveWindow)
	go func() {
		if err := srv.Run(rootCtx); err != nil {
			a.logger.Error("bridge stopped", "error", err)
		}
	}()
	go a.store.Watch(rootCtx, a.logger, func() {
		a.logger.Info("profiles reloaded from disk")
	})

	t := tray.New(tray.Callbacks{
		OnWatcherToggle: func() bool {
			mu.Lock()
			defer mu.Unlock()
			if watcherOn {
				watcherCancel()
				watcherOn = false
			} else {
				watcherCtx, watcherCancel = context.WithCancel(rootCtx)
				startWatcher(watcherCtx)
				watcherOn = true
			}
			return watcherOn
		},
		OnQuit: func() { rootCancel() },
	})

	go func() {
		<-rootCtx.Done()
		t.Quit()
	}()
	t.Run(func() {
		t.SetStatus(a.rep.Current())
	})
	return 0
}
