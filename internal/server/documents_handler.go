// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studyhive/internal/analysis"
	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/parser"
)

// maxUploadBytes caps document uploads at 32 MB.
const maxUploadBytes = 32 << 20

// handleDocuments handles GET (list) and POST (upload) on /api/v1/documents.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		docs, err := s.documents.List(100)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list documents: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
	case http.MethodPost:
		s.handleUpload(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleUpload accepts a multipart file upload, extracts its text, analyzes
// it and stores it in the library.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	doc, err := parser.ParseUpload(header.Filename, data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("failed to extract text: %v", err))
		return
	}

	result := analysis.Analyze(doc.Text)
	analysisJSON, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode analysis: %v", err))
		return
	}

	record := database.Document{
		ID:           uuid.NewString(),
		Title:        doc.Title,
		Filename:     header.Filename,
		Format:       doc.Format,
		Content:      doc.Text,
		WordCount:    doc.WordCount,
		AnalysisJSON: string(analysisJSON),
	}
	if err := s.documents.Insert(record); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store document: %v", err))
		return
	}

	if s.events != nil {
		if err := s.events.LogEvent("ingest", record.Title, fmt.Sprintf("format=%s words=%d", record.Format, record.WordCount)); err != nil {
			log.Printf("handleUpload: failed to log event: %v", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        record.ID,
		"title":     record.Title,
		"wordCount": record.WordCount,
		"analysis":  result,
	})
}

// handleDocumentByID handles GET and DELETE on /api/v1/documents/{id}.
func (s *Server) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := s.documents.Get(id)
		if err != nil {
			if err == sql.ErrNoRows {
				writeError(w, http.StatusNotFound, "document not found")
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load document: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := s.documents.Delete(id); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete document: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
