package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client from environment variables.
// Reads REDIS_ADDR (default: 127.0.0.1:6379), REDIS_DB (default: 0), and
// REDIS_PASSWORD (optional). The initial ping is retried with exponential
// backoff so the server survives Redis coming up slightly later.
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		parsed, err := strconv.Atoi(dbStr)
		if err != nil {
			log.Printf("NewRedisClient: invalid REDIS_DB value '%s', using default 0", dbStr)
		} else {
			db = parsed
		}
	}

	password := os.Getenv("REDIS_PASSWORD")
	log.Printf("NewRedisClient: addr=%s db=%d passwordSet=%v", addr, db, password != "")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}
	if err := backoff.Retry(ping, policy); err != nil {
		log.Printf("NewRedisClient: failed to ping Redis: %v", err)
		return nil, err
	}

	log.Printf("NewRedisClient: connected")
	return client, nil
}
