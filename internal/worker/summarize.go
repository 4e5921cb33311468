// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/progress"
	"github.com/studyhive/internal/queue"
	"github.com/studyhive/internal/summarizer"
)

// SummarizeJobPayload is the payload of a queue.TypeSummarize job. Either
// DocumentID (library document) or Text (ad-hoc) is set.
type SummarizeJobPayload struct {
	SummaryID  string             `json:"summaryId"`
	DocumentID string             `json:"documentId,omitempty"`
	Text       string             `json:"text,omitempty"`
	Options    summarizer.Options `json:"options"`
}

// ChunkIndexer indexes finished chunks for related-content search. The
// vectordb wrapper satisfies this through the indexing adapter in main.
type ChunkIndexer interface {
	IndexChunks(ctx context.Context, documentID string, contents []string) error
}

// SummarizeHandler processes summarize jobs end to end: load the source
// text, run the pipeline, persist the result, and index the chunks.
type SummarizeHandler struct {
	summarizer *summarizer.Summarizer
	documents  *database.DocumentStore
	summaries  *database.SummaryStore
	events     *database.EventLogger
	tracker    *progress.Tracker
	indexer    ChunkIndexer // optional
}

// NewSummarizeHandler wires the handler's dependencies. events and indexer
// may be nil.
func NewSummarizeHandler(s *summarizer.Summarizer, docs *database.DocumentStore, sums *database.SummaryStore,
	events *database.EventLogger, tracker *progress.Tracker, indexer ChunkIndexer) *SummarizeHandler {
	return &SummarizeHandler{
		summarizer: s,
		documents:  docs,
		summaries:  sums,
		events:     events,
		tracker:    tracker,
		indexer:    indexer,
	}
}

// Handle implements HandlerFunc for queue.TypeSummarize jobs.
func (h *SummarizeHandler) Handle(ctx context.Context, job queue.Job) error {
	if job.Type != queue.TypeSummarize {
		return fmt.Errorf("unexpected job type: %s", job.Type)
	}

	var payload SummarizeJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal summarize payload: %w", err)
	}

	text := payload.Text
	docName := "ad-hoc text"
	if payload.DocumentID != "" {
		doc, err := h.documents.Get(payload.DocumentID)
		if err != nil {
			h.fail(payload.SummaryID, fmt.Sprintf("document not found: %v", err))
			return fmt.Errorf("failed to load document %s: %w", payload.DocumentID, err)
		}
		text = doc.Content
		docName = doc.Title
	}

	if err := h.summaries.MarkRunning(payload.SummaryID); err != nil {
		log.Printf("Handle: failed to mark summary running: %v", err)
	}

	result, err := h.summarizer.SummarizeDocument(ctx, payload.SummaryID, text, payload.Options)
	if err != nil {
		h.fail(payload.SummaryID, err.Error())
		return fmt.Errorf("summarize job %s: %w", payload.SummaryID, err)
	}

	if err := h.summaries.MarkDone(payload.SummaryID, result.Summary, result.WordCount, result.Converged); err != nil {
		return fmt.Errorf("failed to persist summary %s: %w", payload.SummaryID, err)
	}
	log.Printf("Handle: summary stored id=%s words=%d converged=%v", payload.SummaryID, result.WordCount, result.Converged)

	if h.events != nil {
		details := fmt.Sprintf("words=%d chunks=%d converged=%v", result.WordCount, len(result.Chunks), result.Converged)
		if err := h.events.LogEvent("summarize", docName, details); err != nil {
			log.Printf("Handle: failed to log event: %v", err)
		}
	}

	if h.indexer != nil && payload.DocumentID != "" {
		contents := make([]string, len(result.Chunks))
		for i, ch := range result.Chunks {
			contents[i] = ch.Content
		}
		if err := h.indexer.IndexChunks(ctx, payload.DocumentID, contents); err != nil {
			// Indexing is best effort; the summary is already persisted.
			log.Printf("Handle: failed to index chunks for document %s: %v", payload.DocumentID, err)
		}
	}

	if h.tracker != nil {
		h.tracker.Remove(payload.SummaryID)
	}
	return nil
}

func (h *SummarizeHandler) fail(summaryID, msg string) {
	log.Printf("fail: summarize failed id=%s: %s", summaryID, msg)
	if err := h.summaries.MarkFailed(summaryID, msg); err != nil {
		log.Printf("fail: could not mark summary %s failed: %v", summaryID, err)
	}
}
