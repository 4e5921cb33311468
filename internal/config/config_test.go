// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("http port = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.Chunker.MinChunkWords != 150 || cfg.Chunker.TargetChunkWords != 300 || cfg.Chunker.MaxChunkWords != 500 {
		t.Errorf("chunker limits = %+v", cfg.Chunker)
	}
	if cfg.RateLimit.Requests != 15 || cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}
	if cfg.Cache.Entries != 100 || cfg.Cache.TTLMinutes != 10 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Qdrant.Enabled {
		t.Error("qdrant should be disabled by default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "http_port: 9090\nchunker:\n  min_chunk_words: 100\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("http port = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.Chunker.MinChunkWords != 100 {
		t.Errorf("min chunk words = %d, want 100", cfg.Chunker.MinChunkWords)
	}
	// Values not in the file fall back to defaults.
	if cfg.Chunker.TargetChunkWords != 300 {
		t.Errorf("target chunk words = %d, want 300", cfg.Chunker.TargetChunkWords)
	}
}
