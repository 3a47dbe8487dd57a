package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestCancelFuncReleasesContext(t *testing.T) {
	ctx, cancel := New()
	cancel()
	<-ctx.Done()
}

func TestSignalCancelsContext(t *testing.T) {
	ctx, cancel := InterruptContext(context.Background(), syscall.SIGUSR1)
	defer cancel()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("signal did not cancel the context")
	}
}
