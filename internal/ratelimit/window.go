package ratelimit

import (
	"sync"
	"time"
)

// windowEntry tracks one key's request count within the current window.
type windowEntry struct {
	count       int
	windowStart time.Time
}

// FixedWindow is a keyed fixed-window request counter.
//
// The window resets on expiry: the first request at or after
// windowStart+window starts a fresh window with count=1. Bursts across a
// window boundary are therefore possible; that is an accepted tradeoff for
// the low request volumes this limiter protects, not a bug. It is not a
// sliding window or a token bucket.
type FixedWindow struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	window  time.Duration
	max     int

	// now is injectable for tests.
	now func() time.Time
}

// NewFixedWindow creates a fixed-window limiter allowing max requests per
// window per key.
func NewFixedWindow(window time.Duration, max int) *FixedWindow {
	return &FixedWindow{
		entries: make(map[string]*windowEntry),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Allow records a request for the key and reports whether it is within the
// window's budget. A request that opens a new window (no entry, or the
// previous window has expired) always counts as 1 and is allowed.
func (fw *FixedWindow) Allow(key string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	entry, ok := fw.entries[key]
	if !ok || now.Sub(entry.windowStart) > fw.window {
		fw.entries[key] = &windowEntry{count: 1, windowStart: now}
		return true
	}

	if entry.count >= fw.max {
		return false
	}

	entry.count++
	return true
}

// Sweep removes entries whose window expired before the given instant.
// Callers run this periodically to bound memory under high distinct-key churn.
func (fw *FixedWindow) Sweep() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	now := fw.now()
	removed := 0
	for key, entry := range fw.entries {
		if now.Sub(entry.windowStart) > fw.window {
			delete(fw.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys. Used by tests and sweep logging.
func (fw *FixedWindow) Len() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.entries)
}

// SetClock overrides the limiter's time source. Tests only.
func (fw *FixedWindow) SetClock(now func() time.Time) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.now = now
}
