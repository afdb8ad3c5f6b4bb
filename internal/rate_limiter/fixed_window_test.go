package ratelimiter

import (
	"testing"
	"time"

	"github.com/gespro/gespro-api/internal/config"
)

func TestFixedWindowRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{
		RequestsPerTimeFrame: 3,
		TimeFrame:            time.Minute,
		Enabled:              true,
	}, nil)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("client-a")
		if !allowed {
			t.Fatalf("request %d should have been allowed", i+1)
		}
	}

	allowed, retryAfter := rl.Allow("client-a")
	if allowed {
		t.Fatal("fourth request should have been rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("unexpected retry after: %v", retryAfter)
	}

	// Another client has its own window.
	if allowed, _ := rl.Allow("client-b"); !allowed {
		t.Fatal("request from a different client should have been allowed")
	}
}

func TestFixedWindowRateLimiterResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{
		RequestsPerTimeFrame: 1,
		TimeFrame:            10 * time.Millisecond,
		Enabled:              true,
	}, nil)

	if allowed, _ := rl.Allow("client-a"); !allowed {
		t.Fatal("first request should have been allowed")
	}
	if allowed, _ := rl.Allow("client-a"); allowed {
		t.Fatal("second request in window should have been rejected")
	}

	time.Sleep(15 * time.Millisecond)

	if allowed, _ := rl.Allow("client-a"); !allowed {
		t.Fatal("request after window reset should have been allowed")
	}
}
