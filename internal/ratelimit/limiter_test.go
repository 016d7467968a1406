package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAllow_FixedWindow(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxPerWindow: 3, Window: time.Minute, Clock: clock})
	defer limiter.Close()

	ip := "192.168.1.1"
	for i := 0; i < 3; i++ {
		result := limiter.Allow(ip)
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if result.Remaining != 2-i {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 2-i, result.Remaining)
		}
	}

	clock.Advance(20 * time.Second)
	result := limiter.Allow(ip)
	if result.Allowed {
		t.Fatal("fourth request in the window should be blocked")
	}
	if result.RetryAfter != 40*time.Second {
		t.Errorf("expected RetryAfter 40s, got %v", result.RetryAfter)
	}

	clock.Advance(40 * time.Second)
	if result := limiter.Allow(ip); !result.Allowed {
		t.Error("request in a new window should be allowed")
	}
}

func TestAllow_SeparateClients(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxPerWindow: 1, Window: time.Minute, Clock: clock})
	defer limiter.Close()

	if !limiter.Allow("10.0.0.1").Allowed {
		t.Fatal("first client should be allowed")
	}
	if limiter.Allow("10.0.0.1").Allowed {
		t.Error("first client should be blocked on its second request")
	}
	if !limiter.Allow("10.0.0.2").Allowed {
		t.Error("second client should have its own window")
	}
}

func TestAllow_DisabledWhenZero(t *testing.T) {
	limiter := New(&Config{MaxPerWindow: 0, Clock: newMockClock()})
	defer limiter.Close()

	for i := 0; i < 1000; i++ {
		if !limiter.Allow("10.0.0.1").Allowed {
			t.Fatalf("request %d blocked with limiting disabled", i+1)
		}
	}
}

func TestReset(t *testing.T) {
	limiter := New(&Config{MaxPerWindow: 1, Window: time.Hour, Clock: newMockClock()})
	defer limiter.Close()

	limiter.Allow("10.0.0.1")
	if limiter.Allow("10.0.0.1").Allowed {
		t.Fatal("expected block before reset")
	}
	limiter.Reset()
	if !limiter.Allow("10.0.0.1").Allowed {
		t.Error("expected allow after reset")
	}
}

func TestCleanupDropsExpiredWindows(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxPerWindow: 5, Window: time.Minute, Clock: clock})
	defer limiter.Close()

	limiter.Allow("10.0.0.1")
	clock.Advance(2 * time.Minute)
	limiter.Allow("10.0.0.2")
	limiter.sweep()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.byIP) != 1 {
		t.Errorf("expected 1 live window after sweep, got %d", len(limiter.byIP))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxPerWindow != 120 {
		t.Errorf("MaxPerWindow = %d, want 120", cfg.MaxPerWindow)
	}
	if cfg.Window != time.Minute {
		t.Errorf("Window = %v, want 1m", cfg.Window)
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if !limiter.Allow("10.0.0.1").Allowed {
		t.Error("first request with default config should be allowed")
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{MaxPerWindow: 50, Window: time.Hour, Clock: newMockClock()})
	defer limiter.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("10.0.0.1").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("expected exactly 50 allowed requests, got %d", allowed)
	}
}

func TestRemoteIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{
			name:       "trusted XFF picks rightmost public IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.50",
		},
		{
			name:       "trusted XFF all private uses last",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "10.0.0.1",
		},
		{
			name:       "trusted X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.51"},
			remoteAddr: "10.0.0.1:12345",
			trustProxy: true,
			expected:   "203.0.113.51",
		},
		{
			name:       "untrusted ignores XFF",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			remoteAddr: "192.168.1.100:54321",
			trustProxy: false,
			expected:   "192.168.1.100",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.168.1.100",
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, "/api/bookings", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := RemoteIP(r, tt.trustProxy); got != tt.expected {
				t.Errorf("RemoteIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsInternal(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.0.0.1", true},
		{"172.31.255.255", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"::ffff:192.168.1.1", true},
		{"::ffff:8.8.8.8", false},
		{"203.0.113.50", false},
		{"2001:4860:4860::8888", false},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isInternal(tt.ip); got != tt.expected {
				t.Errorf("isInternal(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}
