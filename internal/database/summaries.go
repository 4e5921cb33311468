// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Summary job states.
const (
	SummaryPending = "pending"
	SummaryRunning = "running"
	SummaryDone    = "done"
	SummaryFailed  = "failed"
)

// Summary is one summarization job and, once finished, its result.
type Summary struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId,omitempty"`
	Status     string    `json:"status"`
	Content    string    `json:"content,omitempty"`
	WordCount  int       `json:"wordCount"`
	Converged  bool      `json:"converged"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SummaryStore persists summarization jobs and results in SQLite.
type SummaryStore struct {
	db *sql.DB
}

// NewSummaryStore creates the store and its schema.
func NewSummaryStore(db *sql.DB) (*SummaryStore, error) {
	s := &SummaryStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize summaries schema: %w", err)
	}
	return s, nil
}

func (s *SummaryStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS summaries (
		id TEXT PRIMARY KEY,
		document_id TEXT,
		status TEXT NOT NULL,
		content TEXT,
		word_count INTEGER DEFAULT 0,
		converged INTEGER DEFAULT 0,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_document_id ON summaries(document_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create inserts a new pending job.
func (s *SummaryStore) Create(id, documentID string) error {
	now := time.Now()
	_, err := s.db.Exec(
		"INSERT INTO summaries (id, document_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, documentID, SummaryPending, now, now,
	)
	return err
}

// MarkRunning transitions a job to running.
func (s *SummaryStore) MarkRunning(id string) error {
	_, err := s.db.Exec("UPDATE summaries SET status = ?, updated_at = ? WHERE id = ?", SummaryRunning, time.Now(), id)
	return err
}

// MarkDone stores the finished summary.
func (s *SummaryStore) MarkDone(id, content string, wordCount int, converged bool) error {
	_, err := s.db.Exec(
		"UPDATE summaries SET status = ?, content = ?, word_count = ?, converged = ?, updated_at = ? WHERE id = ?",
		SummaryDone, content, wordCount, converged, time.Now(), id,
	)
	return err
}

// MarkFailed records a hard failure.
func (s *SummaryStore) MarkFailed(id, errMsg string) error {
	_, err := s.db.Exec(
		"UPDATE summaries SET status = ?, error = ?, updated_at = ? WHERE id = ?",
		SummaryFailed, errMsg, time.Now(), id,
	)
	return err
}

// Get returns one job, or sql.ErrNoRows.
func (s *SummaryStore) Get(id string) (*Summary, error) {
	row := s.db.QueryRow(
		"SELECT id, COALESCE(document_id, ''), status, COALESCE(content, ''), word_count, converged, COALESCE(error, ''), created_at, updated_at FROM summaries WHERE id = ?", id)

	var sum Summary
	if err := row.Scan(&sum.ID, &sum.DocumentID, &sum.Status, &sum.Content, &sum.WordCount, &sum.Converged, &sum.Error, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
		return nil, err
	}
	return &sum, nil
}
