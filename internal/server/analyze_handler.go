// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/studyhive/internal/analysis"
	"github.com/studyhive/internal/cache"
	"github.com/studyhive/internal/chunker"
)

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// handleAnalyze runs the full content analysis over raw text. Results are
// cached by a fingerprint of the content and parameters.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	key := cache.Fingerprint(req.Text, "analyze")
	if payload, ok := s.cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	result := analysis.Analyze(req.Text)

	payload, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode result: %v", err))
		return
	}
	s.cache.Set(key, payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// ChunkRequest is the payload for POST /api/v1/chunk.
type ChunkRequest struct {
	Text          string  `json:"text"`
	Mode          string  `json:"mode"` // "semantic" (default) or "time"
	TargetSeconds float64 `json:"targetSeconds,omitempty"`
}

// handleChunk divides raw text into chunks using the requested strategy.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Mode == "" {
		req.Mode = "semantic"
	}

	key := cache.Fingerprint(req.Text, "chunk", req.Mode, fmt.Sprintf("%.0f", req.TargetSeconds))
	if payload, ok := s.cache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	var chunks []chunker.Chunk
	var err error
	switch req.Mode {
	case "semantic":
		chunks, err = s.chunker.DivideSemantic(req.Text)
	case "time":
		chunks, err = s.chunker.DivideTimeBased(req.Text, req.TargetSeconds)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode: %s", req.Mode))
		return
	}
	if err != nil {
		if err == chunker.ErrInputTooShort {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("handleChunk: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to chunk text: %v", err))
		return
	}

	response := map[string]interface{}{
		"mode":   req.Mode,
		"count":  len(chunks),
		"chunks": chunks,
	}
	payload, err := json.Marshal(response)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode result: %v", err))
		return
	}
	s.cache.Set(key, payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
