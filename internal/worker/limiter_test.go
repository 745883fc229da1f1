package worker

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.burst)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://journal.org/a.pdf") {
		t.Fatal("first request should pass")
	}

	// Same host, different case and port
	if limiter.Allow("https://JOURNAL.org:8443/b.pdf") {
		t.Error("expected second request to the same host to be throttled")
	}

	if !limiter.Allow("https://other.org/c.pdf") {
		t.Error("expected allow for other host")
	}

	hosts := strings.Join(limiter.Hosts(), ",")
	if hosts != "journal.org,other.org" {
		t.Errorf("unexpected hosts %q", hosts)
	}
}

func TestLimiter_FilesNotThrottled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := limiter.Wait(ctx, "papers/study.pdf"); err != nil {
			t.Fatalf("wait for file ref failed: %v", err)
		}
	}
	if len(limiter.Hosts()) != 0 {
		t.Errorf("file refs must not create host limiters: %v", limiter.Hosts())
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("request %d throttled by an unlimited limiter", i)
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "http://example.com/paper.pdf"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("expected throttling, three waits took %v", elapsed)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	url := "http://example.com"

	if !limiter.Allow(url) {
		t.Fatal("first request should pass")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error waiting with a cancelled context")
	}
	if err := limiter.Wait(ctx, "local.txt"); err == nil {
		t.Error("expected context error for file ref")
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		ref  string
		host string
		ok   bool
	}{
		{"http://example.com/foo", "example.com", true},
		{"https://Example.COM:8080/x", "example.com", true},
		{"papers/a.pdf", "", false},
		{"http://", "", false},
		{"http://[::1", "", false},
	}
	for _, tt := range tests {
		host, ok := hostOf(tt.ref)
		if host != tt.host || ok != tt.ok {
			t.Errorf("hostOf(%q) = %q, %v; want %q, %v", tt.ref, host, ok, tt.host, tt.ok)
		}
	}
}
