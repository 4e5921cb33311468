// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests allowed per window.
	DefaultLimit = 15
	// DefaultWindow is the fixed window length.
	DefaultWindow = 60 * time.Second
)

type window struct {
	start time.Time
	count int
}

// Limiter is a fixed-window request limiter keyed by client identifier
// (normally the remote IP). Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	keys   map[string]*window
	now    func() time.Time
}

// New creates a limiter; non-positive arguments use the defaults (15
// requests per 60 seconds).
func New(limit int, windowLen time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if windowLen <= 0 {
		windowLen = DefaultWindow
	}
	return &Limiter{
		limit:  limit,
		window: windowLen,
		keys:   make(map[string]*window),
		now:    time.Now,
	}
}

// Allow records a request for key. It returns true when the request fits in
// the current window; otherwise false and the duration until the window
// resets (always at most the window length).
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.keys[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.keys[key] = &window{start: now, count: 1}
		l.sweep(now)
		return true, 0
	}

	if w.count < l.limit {
		w.count++
		return true, 0
	}

	retryAfter := l.window - now.Sub(w.start)
	return false, retryAfter
}

// sweep drops windows that expired more than one window ago. Called with
// the lock held, on the cheap path where a fresh window is created.
func (l *Limiter) sweep(now time.Time) {
	for k, w := range l.keys {
		if now.Sub(w.start) >= 2*l.window {
			delete(l.keys, k)
		}
	}
}
