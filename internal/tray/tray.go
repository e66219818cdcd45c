// Package tray provides the system tray icon and menu.
package tray

import (
	"github.com/getlantern/systray"
)

// Callbacks holds the menu event handlers.
type Callbacks struct {
	// OnWatcherToggle flips the background watcher and returns the new
	// enabled state.
	OnWatcherToggle func() bool
	OnQuit          func()
}

// Tray manages the system tray icon and its menu.
type Tray struct {
	callbacks  Callbacks
	status     *systray.MenuItem
	watcherBtn *systray.MenuItem
	quitBtn    *systray.MenuItem
}

// New creates a new Tray.
func New(callbacks Callbacks) *Tray {
	return &Tray{callbacks: callbacks}
}

// Run starts the system tray. Blocks until Quit.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Display Warp")
	systray.SetTooltip("Display Warp")

	t.status = systray.AddMenuItem("Ready.", "")
	t.status.Disable()

	systray.AddSeparator()

	t.watcherBtn = systray.AddMenuItemCheckbox("Monitor watcher", "Keep persistent windows on their monitors", true)

	systray.AddSeparator()

	t.quitBtn = systray.AddMenuItem("Quit", "Exit Display Warp")

	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.watcherBtn.ClickedCh:
			if t.callbacks.OnWatcherToggle != nil {
				if t.callbacks.OnWatcherToggle() {
					t.watcherBtn.Check()
				} else {
					t.watcherBtn.Uncheck()
				}
			}

		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
		}
	}
}

// SetStatus updates the status line shown at the top of the menu.
func (t *Tray) SetStatus(msg string) {
	systray.SetTooltip("Display Warp - " + msg)
	if t.status != nil {
		t.status.SetTitle(msg)
	}
}

func (t *Tray) onExit() {}

// Quit closes the system tray.
func (t *Tray) Quit() {
	systray.Quit()
}
