// Package tray provides the system tray interface for controlling the
// sign-to-speech pipeline.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: a recognition toggle, the most recently
// spoken sign, a link to the overlay page and quit.
type Tray struct {
	onToggle  func(enabled bool)
	onOverlay func()
	onQuit    func()
	enabled   bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuLastSpoken *systray.MenuItem
}

// New creates a new Tray instance with recognition enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback called when recognition is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOverlay sets the callback called when the overlay menu item is clicked.
func (t *Tray) OnOverlay(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOverlay = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("HandSpeak")
	systray.SetTooltip("HandSpeak Sign-to-Speech")

	title := "● Recognizing"
	if !t.IsEnabled() {
		title = "○ Paused"
	}
	t.menuToggle = systray.AddMenuItem(title, "Toggle sign recognition")
	systray.AddSeparator()

	t.menuLastSpoken = systray.AddMenuItem("Last spoken: none", "Most recently spoken sign")
	t.menuLastSpoken.Disable()
	systray.AddSeparator()

	menuOverlay := systray.AddMenuItem("Open Overlay...", "Open the overlay page in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit HandSpeak")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOverlay.ClickedCh:
				t.handleOverlay()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Recognizing")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleOverlay handles the overlay menu item click.
func (t *Tray) handleOverlay() {
	t.mu.RLock()
	callback := t.onOverlay
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

	systray.Quit()
}

// SetLastSpoken updates the last-spoken display in the menu.
func (t *Tray) SetLastSpoken(label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastSpoken != nil {
		if label == "" {
			t.menuLastSpoken.SetTitle("Last spoken: none")
		} else {
			t.menuLastSpoken.SetTitle("Last spoken: " + label)
		}
	}
}

// SetEnabled sets the toggle state without firing the callback. Used to
// restore the persisted state at startup.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled

	if t.menuToggle != nil {
		if enabled {
			t.menuToggle.SetTitle("● Recognizing")
		} else {
			t.menuToggle.SetTitle("○ Paused")
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
