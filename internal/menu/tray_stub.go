//go:build !cgo && !windows
// +build !cgo,!windows

package menu

import (
	"context"
	"errors"
)

var errTrayUnavailable = errors.New("system tray is unavailable without cgo support")

// Install returns an error indicating tray functionality is unavailable without cgo.
func (h *TrayHost) Install(_ context.Context, _ *Menu, _ func(ActionID)) error {
	return errTrayUnavailable
}

// Wait returns immediately; no tray loop runs in this build.
func (h *TrayHost) Wait(_ context.Context) error {
	return errTrayUnavailable
}
