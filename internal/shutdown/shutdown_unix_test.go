//go:build unix

package shutdown_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"todotxt/internal/shutdown"
)

// TestShutdownOnSignal verifies a handled signal initiates shutdown
func TestShutdownOnSignal(t *testing.T) {
	mgr := shutdown.NewManager()
	mgr.HandleSignals(syscall.SIGUSR1)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("failed to signal self: %v", err)
	}

	select {
	case <-mgr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("signal did not trigger shutdown")
	}
	if !mgr.IsShutdown() {
		t.Error("IsShutdown() = false after signal")
	}
	if mgr.Context().Err() == nil {
		t.Error("context should be cancelled after shutdown")
	}
	_ = mgr.Wait(context.Background())
}
