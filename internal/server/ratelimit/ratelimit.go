// Package ratelimit provides per-client rate limiting using a token bucket.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// bucket is one client's token bucket. Tokens refill continuously at
// refillRate per second up to capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	b.tokens = min(float64(b.capacity), b.tokens+elapsed.Seconds()*b.refillRate)
	b.lastRefill = now
}

// take consumes one token if available and reports the bucket state.
func (b *bucket) take() (allowed bool, remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refillLocked(now)

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		allowed = true
	}

	remaining = int(b.tokens)
	if b.tokens < float64(b.capacity) {
		needed := float64(b.capacity) - b.tokens
		resetTime = now.Add(time.Duration(needed / b.refillRate * float64(time.Second)))
	} else {
		resetTime = now
	}
	return allowed, remaining, resetTime
}

// Info describes the rate limit state returned with each decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting settings.
type Config struct {
	Enabled         bool
	Limit           int           // requests per window
	Window          time.Duration // refill window
	Burst           int           // bucket capacity; defaults to Limit
	CleanupInterval time.Duration
}

// LoadConfig reads rate limit settings from the environment. It reads
// RATE_LIMIT_ENABLED (default: true), RATE_LIMIT_PER_MINUTE (default: 120)
// and RATE_LIMIT_BURST (default: the per-minute limit).
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:         true,
		Limit:           120,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.Enabled = v != "false"
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limit = n
		}
	}
	cfg.Burst = cfg.Limit
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Burst = n
		}
	}

	return cfg
}

// Limiter manages one token bucket per client.
type Limiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	lastAccess map[string]time.Time
	config     *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}

	l := &Limiter{
		buckets:    make(map[string]*bucket),
		lastAccess: make(map[string]time.Time),
		config:     config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow checks whether a request from the given client is allowed.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	b := l.getBucket(clientID)

	l.mu.Lock()
	l.lastAccess[clientID] = time.Now()
	l.mu.Unlock()

	allowed, remaining, resetTime := b.take()

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Until(resetTime), 0)
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      l.config.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) getBucket(clientID string) *bucket {
	l.mu.RLock()
	b, exists := l.buckets[clientID]
	l.mu.RUnlock()
	if exists {
		return b
	}

	refillRate := float64(l.config.Limit) / l.config.Window.Seconds()
	capacity := l.config.Burst
	if capacity <= 0 {
		capacity = l.config.Limit
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, exists := l.buckets[clientID]; exists {
		return existing
	}
	b = newBucket(capacity, refillRate)
	l.buckets[clientID] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.removeStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// removeStale drops buckets not touched in over an hour.
func (l *Limiter) removeStale() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
