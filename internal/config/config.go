// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the study server configuration
type Config struct {
	HTTPPort    int    `mapstructure:"http_port"`
	DBPath      string `mapstructure:"db_path"`
	WorkerCount int    `mapstructure:"worker_count"`

	Chunker   ChunkerConfig   `mapstructure:"chunker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Qdrant    QdrantConfig    `mapstructure:"qdrant"`
	LogFile   string          `mapstructure:"log_file"`
}

// ChunkerConfig holds the chunking thresholds
type ChunkerConfig struct {
	MinChunkWords    int `mapstructure:"min_chunk_words"`
	TargetChunkWords int `mapstructure:"target_chunk_words"`
	MaxChunkWords    int `mapstructure:"max_chunk_words"`
}

// RateLimitConfig holds the per-client request limits
type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// CacheConfig holds the result cache bounds
type CacheConfig struct {
	Entries    int `mapstructure:"entries"`
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

// GeneratorConfig holds the generation API settings
type GeneratorConfig struct {
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// QdrantConfig holds the vector index connection settings
type QdrantConfig struct {
	Address string `mapstructure:"address"`
	Enabled bool   `mapstructure:"enabled"`
}

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.SetDefault("http_port", 8080)
	viper.SetDefault("db_path", "./studyhive.db")
	viper.SetDefault("worker_count", 3)
	viper.SetDefault("log_file", "./studyhive.log")
	viper.SetDefault("chunker.min_chunk_words", 150)
	viper.SetDefault("chunker.target_chunk_words", 300)
	viper.SetDefault("chunker.max_chunk_words", 500)
	viper.SetDefault("rate_limit.requests", 15)
	viper.SetDefault("rate_limit.window_seconds", 60)
	viper.SetDefault("cache.entries", 100)
	viper.SetDefault("cache.ttl_minutes", 10)
	viper.SetDefault("generator.model", "gpt-4o-mini")
	viper.SetDefault("generator.max_tokens", 1024)
	viper.SetDefault("qdrant.address", "localhost:6334")
	viper.SetDefault("qdrant.enabled", false)

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("LoadConfig: no config file found, using defaults")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetEnvPrefix("STUDYHIVE")
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	log.Printf("LoadConfig: httpPort=%d dbPath=%s workers=%d qdrantEnabled=%v",
		cfg.HTTPPort, cfg.DBPath, cfg.WorkerCount, cfg.Qdrant.Enabled)
	return &cfg, nil
}
