// Package autorun registers the tray to start at login.
package autorun

import (
	"fmt"

	"github.com/emersion/go-autostart"
)

const (
	appName     = "tray-weather"
	displayName = "Tray Weather"
)

// entry is the subset of autostart.App used here.
type entry interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

// Launcher toggles the login item for one executable.
type Launcher struct {
	app entry
}

// New returns a Launcher starting exe with args at login.
func New(exe string, args ...string) *Launcher {
	return &Launcher{app: &autostart.App{
		Name:        appName,
		DisplayName: displayName,
		Exec:        append([]string{exe}, args...),
	}}
}

// Apply makes the login item match enabled. It does nothing when the item
// is already in that state.
func (l *Launcher) Apply(enabled bool) error {
	if l.app.IsEnabled() == enabled {
		return nil
	}
	if enabled {
		if err := l.app.Enable(); err != nil {
			return fmt.Errorf("enable autorun: %w", err)
		}
		return nil
	}
	if err := l.app.Disable(); err != nil {
		return fmt.Errorf("disable autorun: %w", err)
	}
	return nil
}
