package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeHost struct {
	mu       sync.Mutex
	calls    int
	err      error
	activate func(ActionID)
	during   func(activate func(ActionID))
}

func (h *fakeHost) Install(_ context.Context, _ *Menu, activate func(ActionID)) error {
	h.mu.Lock()
	h.calls++
	h.activate = activate
	h.mu.Unlock()
	if h.during != nil {
		h.during(activate)
	}
	return h.err
}

type recorder struct {
	mu     sync.Mutex
	events []ActionID
}

func (r *recorder) Emit(id ActionID) {
	r.mu.Lock()
	r.events = append(r.events, id)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []ActionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ActionID(nil), r.events...)
}

func newTestRouter(t *testing.T, host Host) (*Router, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewRouter(buildAppMenu(t), host, rec), rec
}

func TestActivateBeforeInstallIsRejected(t *testing.T) {
	router, rec := newTestRouter(t, &fakeHost{})

	if err := router.Activate(ActionToggleGrid); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
	if len(rec.snapshot()) != 0 {
		t.Fatalf("no events expected before install")
	}
}

func TestActivateToggleGridEmitsOnce(t *testing.T) {
	host := &fakeHost{}
	router, rec := newTestRouter(t, host)

	if err := router.Install(context.Background()); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !router.Installed() {
		t.Fatalf("expected router to report installed")
	}

	host.activate(ActionToggleGrid)

	events := rec.snapshot()
	if len(events) != 1 || events[0] != ActionToggleGrid {
		t.Fatalf("expected exactly one toggle-grid event, got %v", events)
	}
}

func TestActivationsKeepOrder(t *testing.T) {
	router, rec := newTestRouter(t, &fakeHost{})
	if err := router.Install(context.Background()); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}

	order := []ActionID{ActionSave, ActionCameraTop, ActionSave, ActionFullscreen}
	for _, id := range order {
		if err := router.Activate(id); err != nil {
			t.Fatalf("Activate(%q) returned error: %v", id, err)
		}
	}

	events := rec.snapshot()
	if len(events) != len(order) {
		t.Fatalf("expected %d events, got %d", len(order), len(events))
	}
	for i := range order {
		if events[i] != order[i] {
			t.Fatalf("event %d expected %q got %q", i, order[i], events[i])
		}
	}
}

func TestInstallOnlyOnce(t *testing.T) {
	host := &fakeHost{}
	router, _ := newTestRouter(t, host)

	if err := router.Install(context.Background()); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if err := router.Install(context.Background()); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
	if host.calls != 1 {
		t.Fatalf("host installed %d times", host.calls)
	}
}

func TestInstallFailureIsFatal(t *testing.T) {
	boom := errors.New("platform menu api failed")
	router, rec := newTestRouter(t, &fakeHost{err: boom})

	err := router.Install(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped host error, got %v", err)
	}
	if router.Installed() {
		t.Fatalf("router must not report installed after failure")
	}
	if err := router.Activate(ActionSave); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled after failed install, got %v", err)
	}
	if err := router.Install(context.Background()); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected no retry after failure, got %v", err)
	}
	if len(rec.snapshot()) != 0 {
		t.Fatalf("no events expected after failed install")
	}
}

func TestActivateUnknownAction(t *testing.T) {
	router, rec := newTestRouter(t, &fakeHost{})
	if err := router.Install(context.Background()); err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if err := router.Activate("open-portal"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if len(rec.snapshot()) != 0 {
		t.Fatalf("unknown action must not be emitted")
	}
}

func TestSynchronousActivationDuringInstallIsRejected(t *testing.T) {
	var during error
	host := &fakeHost{}
	var router *Router
	host.during = func(activate func(ActionID)) {
		activate(ActionToggleGrid)
		during = router.Activate(ActionCameraFront)
	}
	router, rec := newTestRouter(t, host)

	done := make(chan error, 1)
	go func() { done <- router.Install(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Install returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Install did not return while the host activated synchronously")
	}

	if !errors.Is(during, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled during install, got %v", during)
	}
	if events := rec.snapshot(); len(events) != 0 {
		t.Fatalf("no events expected from activations during install, got %v", events)
	}

	if err := router.Activate(ActionToggleGrid); err != nil {
		t.Fatalf("Activate after install returned error: %v", err)
	}
	if events := rec.snapshot(); len(events) != 1 || events[0] != ActionToggleGrid {
		t.Fatalf("expected one toggle-grid event after install, got %v", events)
	}
}

func TestEmitterFunc(t *testing.T) {
	var got ActionID
	EmitterFunc(func(id ActionID) { got = id }).Emit(ActionOpen)
	if got != ActionOpen {
		t.Fatalf("EmitterFunc did not forward, got %q", got)
	}
}
