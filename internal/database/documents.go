// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Document is one stored piece of study material plus its analysis snapshot.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	Format       string    `json:"format"`
	Content      string    `json:"content,omitempty"`
	WordCount    int       `json:"wordCount"`
	AnalysisJSON string    `json:"analysis,omitempty"` // serialized ContentAnalysis
	CreatedAt    time.Time `json:"createdAt"`
}

// DocumentStore persists the document library in SQLite.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates the store and its schema.
func NewDocumentStore(db *sql.DB) (*DocumentStore, error) {
	s := &DocumentStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize documents schema: %w", err)
	}
	return s, nil
}

func (s *DocumentStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		filename TEXT NOT NULL,
		format TEXT NOT NULL,
		content TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		analysis_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Insert stores a new document.
func (s *DocumentStore) Insert(doc Document) error {
	_, err := s.db.Exec(
		"INSERT INTO documents (id, title, filename, format, content, word_count, analysis_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		doc.ID, doc.Title, doc.Filename, doc.Format, doc.Content, doc.WordCount, doc.AnalysisJSON, time.Now(),
	)
	return err
}

// Get returns one document with its full content, or sql.ErrNoRows.
func (s *DocumentStore) Get(id string) (*Document, error) {
	row := s.db.QueryRow(
		"SELECT id, title, filename, format, content, word_count, COALESCE(analysis_json, ''), created_at FROM documents WHERE id = ?", id)

	var doc Document
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Filename, &doc.Format, &doc.Content, &doc.WordCount, &doc.AnalysisJSON, &doc.CreatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns documents newest first, without their content bodies.
func (s *DocumentStore) List(limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		"SELECT id, title, filename, format, word_count, created_at FROM documents ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Filename, &doc.Format, &doc.WordCount, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateAnalysis attaches a serialized analysis to a stored document.
func (s *DocumentStore) UpdateAnalysis(id, analysisJSON string) error {
	_, err := s.db.Exec("UPDATE documents SET analysis_json = ? WHERE id = ?", analysisJSON, id)
	return err
}

// Delete removes a document.
func (s *DocumentStore) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}
