// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"fmt"
	"net/http"
	"strconv"
)

// handleSearch handles GET /api/v1/search?q=...&top_k=N. Semantic search
// is optional; when no vector backend is configured the endpoint reports
// 503 rather than pretending an empty index matched nothing.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.indexer == nil {
		writeError(w, http.StatusServiceUnavailable, "semantic search is not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	topK := 10
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "top_k must be an integer between 1 and 100")
			return
		}
		topK = n
	}

	matches, err := s.indexer.Query(r.Context(), query, topK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("search failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"count":   len(matches),
		"matches": matches,
	})
}
