// Package tray provides a system tray menu for pausing and quitting the
// gesture mouse.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle     func(active bool)
	onOpenStatus func()
	onQuit       func()
	active       bool
	mode         string
	mu           sync.RWMutex

	// quit ends the tray event loop; replaced in tests.
	quit func()

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuMode   *systray.MenuItem
}

// New creates a new Tray with gesture control active.
func New() *Tray {
	return &Tray{
		active: true,
		quit:   systray.Quit,
	}
}

// OnToggle sets the callback run when gesture control is paused or resumed.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenStatus sets the callback for the status page menu item. The item is
// only shown when a callback is set before Run.
func (t *Tray) OnOpenStatus(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenStatus = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application. It must be called from the main
// goroutine and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit ends Run.
func (t *Tray) Quit() {
	t.quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Gesture Mouse")
	systray.SetTooltip("Hand gesture mouse control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.active), "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuMode = systray.AddMenuItem(modeTitle(t.mode), "Current gesture")
	t.menuMode.Disable()
	systray.AddSeparator()

	var statusCh chan struct{}
	if t.onOpenStatus != nil {
		statusCh = systray.AddMenuItem("Open Status...", "Open the status page in a browser").ClickedCh
		systray.AddSeparator()
	}
	t.mu.Unlock()

	menuQuit := systray.AddMenuItem("Quit", "Release the mouse and quit")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-statusCh:
				t.handleOpenStatus()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(active))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

// handleOpenStatus handles the status menu item click.
func (t *Tray) handleOpenStatus() {
	t.mu.RLock()
	callback := t.onOpenStatus
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	t.quit()
}

// SetMode updates the current gesture shown in the menu.
func (t *Tray) SetMode(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == t.mode {
		return
	}
	t.mode = name
	if t.menuMode != nil {
		t.menuMode.SetTitle(modeTitle(name))
	}
}

// Mode returns the gesture last passed to SetMode.
func (t *Tray) Mode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// IsActive returns whether gesture control is active.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

func toggleTitle(active bool) string {
	if active {
		return "● Active"
	}
	return "○ Paused"
}

func modeTitle(mode string) string {
	if mode == "" {
		return "Gesture: none"
	}
	return "Gesture: " + mode
}
