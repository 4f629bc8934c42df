package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:4711"
	if got := RealIP(r); got != "192.0.2.10" {
		t.Errorf("RealIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := RealIP(r); got != "203.0.113.7" {
		t.Errorf("RealIP with X-Forwarded-For = %q", got)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !rl.Allow("login:ABC123", 3, time.Minute) {
			t.Fatalf("request %d denied under the limit", i+1)
		}
	}
	if rl.Allow("login:ABC123", 3, time.Minute) {
		t.Error("request over the limit allowed")
	}

	// Other keys are unaffected.
	if !rl.Allow("login:XYZ789", 3, time.Minute) {
		t.Error("separate key denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter()

	if !rl.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("first request denied")
	}
	if rl.Allow("k", 1, 10*time.Millisecond) {
		t.Fatal("second request in the window allowed")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("k", 1, 10*time.Millisecond) {
		t.Error("request after the window expired denied")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow("gammal", 5, 5*time.Millisecond)
	rl.Allow("färsk", 5, time.Hour)

	time.Sleep(10 * time.Millisecond)
	rl.Cleanup()

	rl.mu.Lock()
	_, oldKept := rl.entries["gammal"]
	_, freshKept := rl.entries["färsk"]
	rl.mu.Unlock()

	if oldKept {
		t.Error("expired entry survived cleanup")
	}
	if !freshKept {
		t.Error("live entry removed by cleanup")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	handler := RateLimit(rl, RealIP, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "192.0.2.50:1234"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over-limit status = %d, want 429", rec.Code)
	}
}
