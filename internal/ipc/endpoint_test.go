package ipc

import "testing"

func TestDefaultEndpointPrecedence(t *testing.T) {
	t.Setenv("BUILDPCBS_BRIDGE_ADDR", "127.0.0.1:6000")

	if got := DefaultEndpoint("127.0.0.1:7000").Address; got != "127.0.0.1:7000" {
		t.Fatalf("explicit address should win, got %q", got)
	}
	if got := DefaultEndpoint("").Address; got != "127.0.0.1:6000" {
		t.Fatalf("environment address should win over default, got %q", got)
	}

	t.Setenv("BUILDPCBS_BRIDGE_ADDR", "")
	ep := DefaultEndpoint("")
	if ep.Address != defaultBridgeAddr || ep.Network != "tcp" {
		t.Fatalf("unexpected default endpoint %+v", ep)
	}
	if ep.String() != "tcp://"+defaultBridgeAddr {
		t.Fatalf("unexpected String() %q", ep.String())
	}
}
