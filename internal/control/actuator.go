// Package control turns classified gestures into pointer and keyboard actions.
package control

import "runtime"

// Actuator injects pointer and keyboard input into the OS. Calls are
// fire-and-forget.
type Actuator interface {
	MoveTo(x, y int)
	Click()
	MouseDown()
	MouseUp()
	// Scroll scrolls vertically; positive amounts scroll content up.
	Scroll(amount int)
	// Hotkey presses keys together; the last key is tapped while the
	// preceding ones are held as modifiers.
	Hotkey(keys ...string)
	ScreenSize() (width, height int)
}

// SwitchWindowsKeys returns the window-switcher key combination for an OS.
func SwitchWindowsKeys(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"ctrl", "up"}
	default:
		return []string{"cmd", "tab"}
	}
}

// defaultSwitchKeys is the combination for the running OS.
var defaultSwitchKeys = SwitchWindowsKeys(runtime.GOOS)
