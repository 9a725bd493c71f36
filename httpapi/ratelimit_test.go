package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterPerClient(t *testing.T) {
	l := newLimiter(1, 1)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	if !l.allow("a") {
		t.Error("expected first request from a to be allowed")
	}
	if l.allow("a") {
		t.Error("expected second request from a to be limited")
	}
	if !l.allow("b") {
		t.Error("expected first request from b to be allowed")
	}

	now = now.Add(time.Second)
	if !l.allow("a") {
		t.Error("expected a to be allowed after refill")
	}
}

func TestLimiterSweepsIdleClients(t *testing.T) {
	l := newLimiter(1, 1)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	l.allow("a")
	l.allow("b")
	if l.size() != 2 {
		t.Fatalf("expected 2 visitors, got %d", l.size())
	}

	now = now.Add(visitorIdle + time.Second)
	l.allow("c")
	if l.size() != 1 {
		t.Errorf("expected idle visitors to be swept, got %d", l.size())
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"10.0.0.1:1234", "10.0.0.1"},
		{"[::1]:80", "::1"},
		{"10.0.0.2", "10.0.0.2"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tt.remote
		if got := clientKey(r); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
