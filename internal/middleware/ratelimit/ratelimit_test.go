package ratelimit

import "testing"

func TestLimiterAllow(t *testing.T) {
	rl := NewLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("fourth request in the window should be rejected")
	}
	// Other clients are tracked independently.
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("different client should be allowed")
	}
}

func TestLimiterDefaultsOnBadConfig(t *testing.T) {
	rl := NewLimiter(0)
	defer rl.Stop()
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("expected default limit to allow first request")
	}
}
