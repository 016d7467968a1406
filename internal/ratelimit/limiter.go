// Package ratelimit throttles mutating API requests per client IP.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds rate limit configuration.
type Config struct {
	// MaxPerWindow is the number of writes one client may make per window.
	// Zero disables limiting.
	MaxPerWindow int
	Window       time.Duration
	// TrustProxy reads the client address from forwarding headers.
	TrustProxy bool
	// Clock defaults to wall time.
	Clock Clock
}

// DefaultConfig allows 120 writes per minute.
func DefaultConfig() *Config {
	return &Config{
		MaxPerWindow: 120,
		Window:       time.Minute,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// window tracks one client's current fixed window.
type window struct {
	count   int
	firstAt time.Time
}

// Limiter counts requests per client in fixed windows.
type Limiter struct {
	config *Config
	clock  Clock
	mu     sync.Mutex
	byIP   map[string]*window

	stop      chan struct{}
	stopOnce  sync.Once
	sweepOnce sync.Once
	sweepers  sync.WaitGroup
}

// New creates a new rate limiter with the given config.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	return &Limiter{
		config: cfg,
		clock:  clock,
		byIP:   make(map[string]*window),
		stop:   make(chan struct{}),
	}
}

// Close stops the sweeper goroutine.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
	l.sweepers.Wait()
}

// Allow records one request from ip and reports whether it fits the window.
// A MaxPerWindow of zero or less disables limiting.
func (l *Limiter) Allow(ip string) LimitResult {
	if l.config.MaxPerWindow <= 0 {
		return LimitResult{Allowed: true}
	}
	l.startSweeper()
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.byIP[ip]
	if e == nil || now.Sub(e.firstAt) >= l.config.Window {
		l.byIP[ip] = &window{count: 1, firstAt: now}
		return LimitResult{Allowed: true, Remaining: l.config.MaxPerWindow - 1}
	}
	if e.count >= l.config.MaxPerWindow {
		return LimitResult{
			Allowed:    false,
			RetryAfter: l.config.Window - now.Sub(e.firstAt),
		}
	}
	e.count++
	return LimitResult{Allowed: true, Remaining: l.config.MaxPerWindow - e.count}
}

// Reset forgets all recorded requests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.byIP = make(map[string]*window)
	l.mu.Unlock()
}

// ClientIP resolves the client address with the limiter's proxy setting.
func (l *Limiter) ClientIP(r *http.Request) string {
	return RemoteIP(r, l.config.TrustProxy)
}

func (l *Limiter) startSweeper() {
	l.sweepOnce.Do(func() {
		l.sweepers.Add(1)
		go func() {
			defer l.sweepers.Done()
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.stop:
					return
				case <-ticker.C:
					l.sweep()
				}
			}
		}()
	})
}

// sweep drops windows that have already expired.
func (l *Limiter) sweep() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.byIP {
		if now.Sub(e.firstAt) >= l.config.Window {
			delete(l.byIP, k)
		}
	}
}

// LogRateLimitExceeded logs a rejected write.
func LogRateLimitExceeded(r *http.Request, ip string, retryAfter time.Duration) {
	log.Ctx(r.Context()).Warn().
		Str("event", "rate_limit_exceeded").
		Str("ip", ip).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Dur("retry_after", retryAfter).
		Msg("Write rate limit exceeded")
}
