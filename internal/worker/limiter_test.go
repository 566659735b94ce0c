package worker

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	if l := NewLimiter(10, 5); l.burst != 5 {
		t.Errorf("expected burst 5, got %d", l.burst)
	}
	if l := NewLimiter(10, -1); l.burst != 1 {
		t.Errorf("expected default burst 1, got %d", l.burst)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://indiankanoon.org/search/?formInput=a"); err != nil {
		t.Fatalf("first request should pass, got %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(short, "https://indiankanoon.org/search/?formInput=b"); err == nil {
		t.Error("second request to the same host should be limited")
	}

	if err := limiter.Wait(ctx, "https://example.com/"); err != nil {
		t.Errorf("other hosts have their own bucket, got %v", err)
	}
	if n := len(limiter.limiters); n != 2 {
		t.Errorf("expected 2 host buckets, got %d", n)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(20, 1)
	ctx := context.Background()
	url := "https://indiankanoon.org"

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, url); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected spacing of ~50ms between requests, total %v", elapsed)
	}
}

func TestLimiter_WaitCanceled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	url := "https://indiankanoon.org"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when the deadline is shorter than the wait")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx, "https://indiankanoon.org"); err != nil {
			t.Fatalf("request %d limited with limiting disabled: %v", i, err)
		}
	}
}
