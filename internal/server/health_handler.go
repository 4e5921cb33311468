// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"fmt"
	"net/http"
	"time"
)

// handleHealth handles GET /api/v1/health requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "up",
		"version": "1.0",
	})
}

// handleEvents handles GET /api/v1/events requests for the activity feed
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.events == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}

	events, err := s.events.GetRecentEvents(100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load events: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%d", secs)
}
