//go:build cgo || windows
// +build cgo windows

package menu

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/getlantern/systray"
)

// Install starts the tray loop and renders m. It returns once every item has
// been added, or with the first rendering error.
func (h *TrayHost) Install(ctx context.Context, m *Menu, activate func(ActionID)) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return errors.New("tray host already started")
	}
	h.started = true
	h.mu.Unlock()

	rendered := make(chan error, 1)
	go systray.Run(func() {
		if h.opts.Icon != nil {
			systray.SetIcon(h.opts.Icon)
			if runtime.GOOS == "darwin" {
				systray.SetTemplateIcon(h.opts.Icon, h.opts.Icon)
			}
		}
		systray.SetTooltip(h.opts.Tooltip)

		rendered <- h.render(ctx, m, activate)
	}, func() {
		close(h.done)
	})

	select {
	case err := <-rendered:
		if err != nil {
			systray.Quit()
		}
		return err
	case <-ctx.Done():
		systray.Quit()
		return ctx.Err()
	}
}

// Wait blocks until the tray exits or ctx is canceled.
func (h *TrayHost) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		systray.Quit()
		<-h.done
		return ctx.Err()
	case <-h.done:
		return nil
	}
}

func (h *TrayHost) render(ctx context.Context, m *Menu, activate func(ActionID)) error {
	for _, item := range m.Items() {
		if err := h.addNode(ctx, nil, item, activate); err != nil {
			return err
		}
	}
	return nil
}

func (h *TrayHost) addNode(ctx context.Context, parent *systray.MenuItem, n Node, activate func(ActionID)) error {
	switch n.Kind {
	case KindSeparator:
		if parent == nil {
			systray.AddSeparator()
			return nil
		}
		mi := parent.AddSubMenuItem("—", "")
		mi.Disable()
		return nil
	case KindSubmenu:
		mi := makeMenuItem(parent, n.Label, "")
		go drainClicks(ctx, mi.ClickedCh)
		for _, child := range n.Children {
			if err := h.addNode(ctx, mi, child, activate); err != nil {
				return err
			}
		}
		return nil
	case KindAction:
		mi := makeMenuItem(parent, n.Label, string(n.ID))
		go func(ch <-chan struct{}, id ActionID) {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					activate(id)
				}
			}
		}(mi.ClickedCh, n.ID)
		return nil
	case KindPredefined:
		mi := makeMenuItem(parent, n.DisplayLabel(), "")
		if n.Predefined != PredefinedQuit {
			// The tray has no native equivalent for window and editing roles.
			mi.Disable()
			return nil
		}
		go func(ch <-chan struct{}) {
			select {
			case <-ctx.Done():
			case <-ch:
				systray.Quit()
			}
		}(mi.ClickedCh)
		return nil
	default:
		return fmt.Errorf("unsupported menu node kind %s", n.Kind)
	}
}

func makeMenuItem(parent *systray.MenuItem, label, tooltip string) *systray.MenuItem {
	if parent == nil {
		return systray.AddMenuItem(label, tooltip)
	}
	return parent.AddSubMenuItem(label, tooltip)
}

func drainClicks(ctx context.Context, ch <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
		}
	}
}
