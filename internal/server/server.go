// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/studyhive/internal/cache"
	"github.com/studyhive/internal/chunker"
	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/logger"
	"github.com/studyhive/internal/progress"
	"github.com/studyhive/internal/queue"
	"github.com/studyhive/internal/ratelimit"
	"github.com/studyhive/internal/search"
	"github.com/studyhive/internal/server/middleware"
)

// Server holds the handler dependencies. All shared state lives in explicit
// injected components; there are no module-level singletons.
type Server struct {
	chunker   *chunker.Chunker
	cache     *cache.ResultCache
	limiter   *ratelimit.Limiter
	documents *database.DocumentStore
	summaries *database.SummaryStore
	events    *database.EventLogger
	tracker   *progress.Tracker
	jobs      queue.Queue
	indexer   *search.Indexer // nil when vector search is disabled
	logs      *logger.Logger
}

// New wires a server. events, indexer and logs may be nil.
func New(c *chunker.Chunker, rc *cache.ResultCache, rl *ratelimit.Limiter,
	docs *database.DocumentStore, sums *database.SummaryStore, events *database.EventLogger,
	tracker *progress.Tracker, jobs queue.Queue, indexer *search.Indexer, logs *logger.Logger) *Server {
	return &Server{
		chunker:   c,
		cache:     rc,
		limiter:   rl,
		documents: docs,
		summaries: sums,
		events:    events,
		tracker:   tracker,
		jobs:      jobs,
		indexer:   indexer,
		logs:      logs,
	}
}

// Routes builds the HTTP mux with traffic logging on every route.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/analyze", s.rateLimited(s.handleAnalyze))
	mux.HandleFunc("/api/v1/chunk", s.rateLimited(s.handleChunk))
	mux.HandleFunc("/api/v1/documents", s.handleDocuments)
	mux.HandleFunc("/api/v1/documents/", s.handleDocumentByID)
	mux.HandleFunc("/api/v1/summarize", s.rateLimited(s.handleSummarize))
	mux.HandleFunc("/api/v1/summaries/", s.handleSummaryByID)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/logs/ws", s.handleLogsWS)

	return middleware.TrafficLogger(mux)
}

// rateLimited enforces the fixed-window per-client limit.
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := s.limiter.Allow(clientKey(r))
		if !ok {
			w.Header().Set("Retry-After", formatSeconds(retryAfter))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

// clientKey identifies the client for rate limiting, normally the remote IP.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
