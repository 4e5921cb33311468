// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studyhive/internal/chunker"
	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/progress"
	"github.com/studyhive/internal/queue"
	"github.com/studyhive/internal/summarizer"
)

// fixedGenerator returns the same output for every prompt.
type fixedGenerator struct {
	output string
}

func (g *fixedGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return g.output, nil
}

func newTestStores(t *testing.T) (*database.DocumentStore, *database.SummaryStore) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	docs, err := database.NewDocumentStore(db)
	if err != nil {
		t.Fatalf("document store: %v", err)
	}
	sums, err := database.NewSummaryStore(db)
	if err != nil {
		t.Fatalf("summary store: %v", err)
	}
	return docs, sums
}

func TestSummarizeHandlerAdHocText(t *testing.T) {
	docs, sums := newTestStores(t)
	tracker := progress.NewTracker()

	gen := &fixedGenerator{output: strings.TrimSpace(strings.Repeat("word ", 50))}
	s := summarizer.New(gen, chunker.New(chunker.DefaultLimits()), tracker, 512)
	h := NewSummarizeHandler(s, docs, sums, nil, tracker, nil)

	if err := sums.Create("s1", ""); err != nil {
		t.Fatalf("create summary: %v", err)
	}

	text := strings.Repeat("Photosynthesis is defined as the process plants use to turn light into usable chemical energy. ", 10)
	payload, _ := json.Marshal(SummarizeJobPayload{
		SummaryID: "s1",
		Text:      text,
		Options:   summarizer.Options{DetailLevel: "brief"},
	})
	job := queue.Job{ID: "s1", Type: queue.TypeSummarize, Payload: payload, CreatedAt: time.Now()}

	if err := h.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	sum, err := sums.Get("s1")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if sum.Status != database.SummaryDone {
		t.Errorf("status = %q, want done", sum.Status)
	}
	if sum.WordCount != 50 {
		t.Errorf("word count = %d, want 50", sum.WordCount)
	}
	if _, ok := tracker.Get("s1"); ok {
		t.Error("tracker entry should be removed after completion")
	}
}

func TestSummarizeHandlerLibraryDocument(t *testing.T) {
	docs, sums := newTestStores(t)
	gen := &fixedGenerator{output: strings.TrimSpace(strings.Repeat("word ", 50))}
	s := summarizer.New(gen, chunker.New(chunker.DefaultLimits()), nil, 512)
	h := NewSummarizeHandler(s, docs, sums, nil, nil, nil)

	content := strings.Repeat("The water cycle moves water between oceans, clouds and rivers in a continuous loop. ", 10)
	if err := docs.Insert(database.Document{ID: "d1", Title: "Water Cycle", Filename: "w.md", Format: "md", Content: content, WordCount: 140}); err != nil {
		t.Fatalf("insert document: %v", err)
	}
	sums.Create("s2", "d1")

	payload, _ := json.Marshal(SummarizeJobPayload{SummaryID: "s2", DocumentID: "d1"})
	job := queue.Job{ID: "s2", Type: queue.TypeSummarize, Payload: payload}

	if err := h.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	sum, _ := sums.Get("s2")
	if sum.Status != database.SummaryDone {
		t.Errorf("status = %q, want done", sum.Status)
	}
}

func TestSummarizeHandlerMissingDocument(t *testing.T) {
	docs, sums := newTestStores(t)
	gen := &fixedGenerator{output: "irrelevant"}
	s := summarizer.New(gen, chunker.New(chunker.DefaultLimits()), nil, 512)
	h := NewSummarizeHandler(s, docs, sums, nil, nil, nil)

	sums.Create("s3", "missing")
	payload, _ := json.Marshal(SummarizeJobPayload{SummaryID: "s3", DocumentID: "missing"})
	job := queue.Job{ID: "s3", Type: queue.TypeSummarize, Payload: payload}

	if err := h.Handle(context.Background(), job); err == nil {
		t.Fatal("expected error for a missing document")
	}
	sum, _ := sums.Get("s3")
	if sum.Status != database.SummaryFailed {
		t.Errorf("status = %q, want failed", sum.Status)
	}
}

func TestSummarizeHandlerRejectsWrongType(t *testing.T) {
	docs, sums := newTestStores(t)
	s := summarizer.New(&fixedGenerator{output: "x"}, chunker.New(chunker.DefaultLimits()), nil, 512)
	h := NewSummarizeHandler(s, docs, sums, nil, nil, nil)

	if err := h.Handle(context.Background(), queue.Job{Type: "other"}); err == nil {
		t.Fatal("expected error for unexpected job type")
	}
}

func TestWorkersProcessJobs(t *testing.T) {
	q := queue.NewMemoryQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processed := make(chan string, 4)
	handler := func(ctx context.Context, job queue.Job) error {
		processed <- job.ID
		return nil
	}

	go StartWorkers(ctx, q, handler, 2)

	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, queue.Job{ID: id, Type: queue.TypeSummarize}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		select {
		case id := <-processed:
			seen[id] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for jobs, processed %d", len(seen))
		}
	}
	if !seen["a"] || !seen["b"] || !seen["c"] {
		t.Errorf("not all jobs processed: %v", seen)
	}
}
