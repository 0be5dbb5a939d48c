package fetch

import (
	"context"
	"testing"
	"time"
)

func TestGateWaitThrottles(t *testing.T) {
	g := NewGate("test-agent", 10, 1, time.Second)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.Wait(context.Background(), "https://example.com/page"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}

	// Burst 1 at 10 rps: the second and third waits each cost ~100ms.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("Expected throttling, three waits took only %v", elapsed)
	}
}

func TestGateWaitCancellation(t *testing.T) {
	g := NewGate("test-agent", 0.001, 1, time.Second)

	// Drain the burst token.
	if err := g.Wait(context.Background(), "https://example.com/page"); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := g.Wait(ctx, "https://example.com/page"); err == nil {
		t.Error("Expected context error on cancelled wait")
	}
}

func TestGateWaitBadURL(t *testing.T) {
	g := NewGate("test-agent", 1, 1, time.Second)

	if err := g.Wait(context.Background(), "://not-a-url"); err == nil {
		t.Error("Expected error for unparseable URL")
	}
}
