// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultEntries = 100
	defaultTTL     = 10 * time.Minute
	prefixLen      = 256
)

// ResultCache caches analysis and chunking results keyed by a fingerprint of
// the request. It is an explicit injected component with bounded size and a
// TTL, safe for concurrent use.
type ResultCache struct {
	lru *expirable.LRU[string, []byte]
}

// New creates a cache; non-positive arguments use the defaults (100 entries,
// 10 minute TTL).
func New(entries int, ttl time.Duration) *ResultCache {
	if entries <= 0 {
		entries = defaultEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ResultCache{lru: expirable.NewLRU[string, []byte](entries, nil, ttl)}
}

// Fingerprint derives a cache key from the content prefix, the content
// length, and the request parameters.
func Fingerprint(content string, params ...string) string {
	prefix := content
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", prefix, len(content))
	for _, p := range params {
		fmt.Fprintf(h, "|%s", p)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached payload for key, if present and unexpired.
func (c *ResultCache) Get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

// Set stores a payload under key, evicting the oldest entry when full.
func (c *ResultCache) Set(key string, payload []byte) {
	c.lru.Add(key, payload)
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
