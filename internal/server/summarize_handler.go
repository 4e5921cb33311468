// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyhive/internal/queue"
	"github.com/studyhive/internal/summarizer"
	"github.com/studyhive/internal/worker"
)

// SummarizeRequest is the payload for POST /api/v1/summarize. Either
// DocumentID (library document) or Text must be set.
type SummarizeRequest struct {
	DocumentID string             `json:"documentId,omitempty"`
	Text       string             `json:"text,omitempty"`
	Options    summarizer.Options `json:"options"`
}

// handleSummarize validates the request, creates a pending summary record
// and enqueues a background job. The response carries the job id for
// polling.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.DocumentID == "" && len(strings.TrimSpace(req.Text)) < 100 {
		writeError(w, http.StatusBadRequest, "documentId or at least 100 characters of text is required")
		return
	}
	if req.DocumentID != "" {
		if _, err := s.documents.Get(req.DocumentID); err != nil {
			if err == sql.ErrNoRows {
				writeError(w, http.StatusNotFound, "document not found")
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load document: %v", err))
			return
		}
	}

	summaryID := uuid.NewString()
	if err := s.summaries.Create(summaryID, req.DocumentID); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create summary record: %v", err))
		return
	}

	payload, err := json.Marshal(worker.SummarizeJobPayload{
		SummaryID:  summaryID,
		DocumentID: req.DocumentID,
		Text:       req.Text,
		Options:    req.Options,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode job: %v", err))
		return
	}

	job := queue.Job{
		ID:        summaryID,
		Type:      queue.TypeSummarize,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := s.jobs.Enqueue(r.Context(), job); err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("failed to enqueue job: %v", err))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"jobId":  summaryID,
		"status": "pending",
	})
}

// handleSummaryByID handles GET /api/v1/summaries/{id} and
// GET /api/v1/summaries/{id}/progress.
func (s *Server) handleSummaryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/summaries/")
	id := rest
	wantProgress := false
	if strings.HasSuffix(rest, "/progress") {
		id = strings.TrimSuffix(rest, "/progress")
		wantProgress = true
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if wantProgress {
		if status, ok := s.tracker.Get(id); ok {
			writeJSON(w, http.StatusOK, status)
			return
		}
		// No live progress: fall through to the stored record's state.
	}

	sum, err := s.summaries.Get(id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "summary not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load summary: %v", err))
		return
	}

	if wantProgress {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"stage":           sum.Status,
			"processedChunks": 0,
			"totalChunks":     0,
		})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
