package menu

import "sync"

// TrayOptions configures the system tray host.
type TrayOptions struct {
	Tooltip string
	Icon    []byte
}

// TrayHost renders the menu into the system tray. Top-level submenus become
// tray entries with nested items.
type TrayHost struct {
	opts TrayOptions

	mu      sync.Mutex
	done    chan struct{}
	started bool
}

// NewTrayHost constructs a tray host. Nothing is shown until Install.
func NewTrayHost(opts TrayOptions) *TrayHost {
	opts.Icon = cloneIcon(opts.Icon)
	return &TrayHost{opts: opts, done: make(chan struct{})}
}
