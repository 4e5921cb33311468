// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package summarizer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/studyhive/internal/ai"
	"github.com/studyhive/internal/chunker"
	"github.com/studyhive/internal/progress"
	"github.com/studyhive/internal/textseg"
)

// emptyChunkPlaceholder stands in for chunks with no extractable words.
const emptyChunkPlaceholder = "(no content)"

// Summarizer runs the chunk -> generate -> merge -> length-adjust pipeline.
// Chunks are processed sequentially; there is no parallel fan-out, so total
// latency scales linearly with chunk count.
type Summarizer struct {
	gen       ai.Generator
	chunks    *chunker.Chunker
	tracker   *progress.Tracker
	maxTokens int
}

// New creates a summarizer. maxTokens caps each generation call's output.
func New(gen ai.Generator, c *chunker.Chunker, tracker *progress.Tracker, maxTokens int) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Summarizer{gen: gen, chunks: c, tracker: tracker, maxTokens: maxTokens}
}

// Result is the finished summary plus the chunk metadata it was built from.
type Result struct {
	Summary   string          `json:"summary"`
	WordCount int             `json:"wordCount"`
	Chunks    []chunker.Chunk `json:"chunks"`
	Converged bool            `json:"converged"`
}

// SummarizeDocument runs the full pipeline over one document. jobID keys the
// progress snapshots; pass an empty string to skip progress reporting.
func (s *Summarizer) SummarizeDocument(ctx context.Context, jobID, text string, opts Options) (*Result, error) {
	s.report(jobID, "chunking", 0, 0)

	chunks, err := s.chunks.DivideSemantic(text)
	if err != nil {
		return nil, err
	}
	total := len(chunks)
	if total == 0 {
		return nil, fmt.Errorf("chunking produced no usable content")
	}
	log.Printf("SummarizeDocument: job=%s chunks=%d", jobID, total)

	parts := make([]string, 0, total)
	for i, ch := range chunks {
		s.report(jobID, "summarizing", i, total)

		if ch.WordCount == 0 {
			// Zero-content chunk: skipped, not a pipeline failure.
			log.Printf("SummarizeDocument: job=%s chunk=%d has no words, skipping", jobID, i)
			parts = append(parts, emptyChunkPlaceholder)
			continue
		}

		out, err := s.gen.Generate(ctx, chunkPrompt(opts, ch.Title, ch.Content, ch.KeyConcepts), s.maxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize chunk %d: %w", i, err)
		}
		parts = append(parts, out)
	}

	s.report(jobID, "merging", total, total)

	merged := parts[0]
	if len(parts) > 1 {
		merged, err = s.gen.Generate(ctx, mergePrompt(opts, parts), s.maxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to merge chunk summaries: %w", err)
		}
	}

	s.report(jobID, "adjusting", total, total)

	band := opts.TargetBand(textseg.CountWords(text))
	final, err := AdjustLength(ctx, s.gen, merged, band, s.maxTokens)
	if err != nil {
		return nil, err
	}

	s.report(jobID, "done", total, total)

	words := CountDraftWords(final)
	return &Result{
		Summary:   strings.TrimSpace(final),
		WordCount: words,
		Chunks:    chunks,
		Converged: band.Contains(words),
	}, nil
}

func (s *Summarizer) report(jobID, stage string, processed, total int) {
	if s.tracker == nil || jobID == "" {
		return
	}
	s.tracker.Set(jobID, progress.Status{Stage: stage, ProcessedChunks: processed, TotalChunks: total})
}
