// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package cache

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(10, time.Minute)
	key := Fingerprint("some document text", "analyze")
	c.Set(key, []byte(`{"ok":true}`))

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, []byte(`{"ok":true}`)) {
		t.Errorf("payload mismatch: %s", got)
	}
}

func TestGetMiss(t *testing.T) {
	c := New(10, time.Minute)
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestEvictionBound(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))
	if c.Len() > 2 {
		t.Errorf("cache grew past its bound: %d entries", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint("content", "analyze")
	if Fingerprint("content", "chunk") == base {
		t.Error("different params must change the fingerprint")
	}
	if Fingerprint("other content", "analyze") == base {
		t.Error("different content must change the fingerprint")
	}
	if Fingerprint("content", "analyze") != base {
		t.Error("fingerprint must be deterministic")
	}
}

func TestFingerprintUsesLength(t *testing.T) {
	// Same 256-char prefix, different total length: must differ.
	prefix := strings.Repeat("x", 300)
	longer := prefix + "y"
	if Fingerprint(prefix, "p") == Fingerprint(longer, "p") {
		t.Error("texts sharing a prefix but differing in length must not collide")
	}
}
