package main

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/buildpcbs/internal/bridge"
	"github.com/example/buildpcbs/internal/ipc"
	"github.com/example/buildpcbs/internal/logging"
	"github.com/example/buildpcbs/internal/menu"
	"github.com/example/buildpcbs/internal/service"
)

func isolateSettings(t *testing.T) {
	t.Helper()
	t.Setenv("BUILDPCBS_CONFIG_PATH", filepath.Join(t.TempDir(), "settings.toml"))
	t.Setenv("BUILDPCBS_SECRET", "")
	t.Setenv("BUILDPCBS_BRIDGE_ADDR", "")
}

func TestMenuCommandPrintsCatalogue(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"menu"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("menu command returned error: %v", err)
	}
	for _, id := range menu.Catalogue() {
		if !strings.Contains(out.String(), "["+string(id)+"]") {
			t.Fatalf("menu output missing %q", id)
		}
	}
	if !strings.Contains(out.String(), "20 actions") {
		t.Fatalf("expected action count in output:\n%s", out.String())
	}
}

func TestCallRejectsUnknownCommand(t *testing.T) {
	isolateSettings(t)
	cmd := newRootCommand()
	cmd.SetArgs([]string{"call", "rm_rf"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestCallRejectsInvalidJSON(t *testing.T) {
	isolateSettings(t)
	cmd := newRootCommand()
	cmd.SetArgs([]string{"call", "greet", "{name:"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "valid JSON") {
		t.Fatalf("expected invalid JSON error, got %v", err)
	}
}

func TestCallGreetAgainstRunningBridge(t *testing.T) {
	isolateSettings(t)
	t.Setenv("BUILDPCBS_SERVICE_TOKEN", "cli-token")

	reg, err := bridge.NewRegistry(bridge.GreetCommand())
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	srv, err := service.New(reg, service.NewBroadcaster(), ipc.DefaultEndpoint(addr), "cli-token")
	if err != nil {
		t.Fatalf("service.New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = srv.Serve(ctx, listener)
		close(done)
	}()
	defer func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Errorf("service did not stop")
		}
	}()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"call", "greet", `{"name":"CLI"}`, "--addr", addr})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("call command returned error: %v", err)
	}
	want := `"` + bridge.Greet("CLI") + `"`
	if strings.TrimSpace(out.String()) != want {
		t.Fatalf("unexpected output %q, want %q", out.String(), want)
	}
}

func TestStartupFailureIsLoggedToCommandStderr(t *testing.T) {
	isolateSettings(t)
	t.Setenv("BUILDPCBS_MKDIR_POLICY", "retry")
	t.Cleanup(func() { logging.Init("buildpcbs", nil) })

	cmd := newRootCommand()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "mkdir_policy") {
		t.Fatalf("expected invalid settings error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "startup failed") {
		t.Fatalf("expected startup failure in command stderr, got %q", stderr.String())
	}
}
