package notify

import (
	"context"
	"testing"
)

func TestConsoleDispatcher(t *testing.T) {
	d := NewConsoleDispatcher()

	if !d.IsSupported() {
		t.Fatal("console dispatcher must always be supported")
	}
	if d.PermissionState() != PermissionGranted {
		t.Fatalf("permission = %q", d.PermissionState())
	}

	sent, err := d.Send(context.Background(), Payload{Title: "t", Message: "m"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !sent {
		t.Fatal("expected a delivered send")
	}
	if d.Sent() != 1 {
		t.Fatalf("Sent = %d, want 1", d.Sent())
	}
}
