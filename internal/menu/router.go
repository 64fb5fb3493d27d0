package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/buildpcbs/internal/logging"
)

var (
	// ErrAlreadyInstalled is returned when Install is called more than once.
	ErrAlreadyInstalled = errors.New("menu already installed")
	// ErrNotInstalled is returned for activations before a successful Install.
	ErrNotInstalled = errors.New("menu not installed")
)

// Emitter receives action identifiers for delivery to the frontend.
type Emitter interface {
	Emit(id ActionID)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(id ActionID)

func (f EmitterFunc) Emit(id ActionID) { f(id) }

// Host installs a menu on a platform surface. The host calls activate each
// time the user selects an action node. Calls made before Install returns
// are rejected with ErrNotInstalled.
type Host interface {
	Install(ctx context.Context, m *Menu, activate func(ActionID)) error
}

type routerState int

const (
	stateUninstalled routerState = iota
	stateInstalling
	stateInstalled
	stateFailed
)

// Router owns the built menu, installs it once and forwards activations.
type Router struct {
	menu  *Menu
	host  Host
	emit  Emitter
	known map[ActionID]struct{}

	mu    sync.Mutex
	state routerState
}

// NewRouter binds a menu to a host and an emitter.
func NewRouter(m *Menu, host Host, emit Emitter) *Router {
	known := make(map[ActionID]struct{})
	for _, id := range m.Actions() {
		known[id] = struct{}{}
	}
	return &Router{
		menu:  m,
		host:  host,
		emit:  emit,
		known: known,
	}
}

// Menu returns the routed menu.
func (r *Router) Menu() *Menu {
	return r.menu
}

// Installed reports whether Install completed successfully.
func (r *Router) Installed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateInstalled
}

// Install hands the menu to the host. It succeeds at most once; a host
// failure is returned wrapped and leaves the router unusable.
func (r *Router) Install(ctx context.Context) error {
	r.mu.Lock()
	if r.state != stateUninstalled {
		r.mu.Unlock()
		return ErrAlreadyInstalled
	}
	r.state = stateInstalling
	r.mu.Unlock()

	err := r.host.Install(ctx, r.menu, r.hostActivate)

	r.mu.Lock()
	if err != nil {
		r.state = stateFailed
	} else {
		r.state = stateInstalled
	}
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("install menu: %w", err)
	}
	logging.Debugf("menu installed with %d actions", len(r.known))
	return nil
}

func (r *Router) hostActivate(id ActionID) {
	if err := r.Activate(id); err != nil {
		logging.Warnf("dropped menu activation %q: %v", id, err)
	}
}

// Activate emits id exactly once. It never blocks on installation: any
// state other than installed yields ErrNotInstalled.
func (r *Router) Activate(id ActionID) error {
	if !r.Installed() {
		return ErrNotInstalled
	}

	if _, ok := r.known[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, id)
	}
	logging.Debugf("menu action %s", id)
	if r.emit != nil {
		r.emit.Emit(id)
	}
	return nil
}
