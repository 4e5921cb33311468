// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentStoreRoundTrip(t *testing.T) {
	store, err := NewDocumentStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewDocumentStore: %v", err)
	}

	doc := Document{
		ID:        "d1",
		Title:     "Photosynthesis Notes",
		Filename:  "photo.md",
		Format:    "md",
		Content:   "Photosynthesis converts light into chemical energy.",
		WordCount: 7,
	}
	if err := store.Insert(doc); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.Get("d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != doc.Title || got.Content != doc.Content || got.WordCount != doc.WordCount {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestDocumentStoreGetMissing(t *testing.T) {
	store, _ := NewDocumentStore(openTestDB(t))
	if _, err := store.Get("nope"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDocumentStoreListOmitsContent(t *testing.T) {
	store, _ := NewDocumentStore(openTestDB(t))
	store.Insert(Document{ID: "d1", Title: "A", Filename: "a.txt", Format: "txt", Content: "full body", WordCount: 2})

	docs, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Content != "" {
		t.Error("List must not include content bodies")
	}
}

func TestDocumentStoreUpdateAnalysisAndDelete(t *testing.T) {
	store, _ := NewDocumentStore(openTestDB(t))
	store.Insert(Document{ID: "d1", Title: "A", Filename: "a.txt", Format: "txt", Content: "x", WordCount: 1})

	if err := store.UpdateAnalysis("d1", `{"difficulty":"basic"}`); err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}
	got, _ := store.Get("d1")
	if got.AnalysisJSON == "" {
		t.Error("analysis not persisted")
	}

	if err := store.Delete("d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("d1"); err != sql.ErrNoRows {
		t.Errorf("document still present after delete: %v", err)
	}
}

func TestSummaryStoreLifecycle(t *testing.T) {
	store, err := NewSummaryStore(openTestDB(t))
	if err != nil {
		t.Fatalf("NewSummaryStore: %v", err)
	}

	if err := store.Create("s1", "d1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	sum, err := store.Get("s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sum.Status != SummaryPending {
		t.Errorf("new job status = %q, want pending", sum.Status)
	}

	if err := store.MarkRunning("s1"); err != nil {
		t.Fatalf("MarkRunning: %v", err)
	}
	sum, _ = store.Get("s1")
	if sum.Status != SummaryRunning {
		t.Errorf("status = %q, want running", sum.Status)
	}

	if err := store.MarkDone("s1", "the summary text", 3, true); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	sum, _ = store.Get("s1")
	if sum.Status != SummaryDone || sum.Content != "the summary text" || sum.WordCount != 3 || !sum.Converged {
		t.Errorf("done state mismatch: %+v", sum)
	}
}

func TestSummaryStoreMarkFailed(t *testing.T) {
	store, _ := NewSummaryStore(openTestDB(t))
	store.Create("s1", "")

	if err := store.MarkFailed("s1", "generator unavailable"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	sum, _ := store.Get("s1")
	if sum.Status != SummaryFailed || sum.Error != "generator unavailable" {
		t.Errorf("failed state mismatch: %+v", sum)
	}
}

func TestEventLoggerRecent(t *testing.T) {
	logger, err := NewEventLogger(openTestDB(t))
	if err != nil {
		t.Fatalf("NewEventLogger: %v", err)
	}

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		if err := logger.LogEvent("ingest", name, "stored"); err != nil {
			t.Fatalf("LogEvent: %v", err)
		}
	}

	events, err := logger.GetRecentEvents(2)
	if err != nil {
		t.Fatalf("GetRecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, ev := range events {
		if ev.EventType != "ingest" {
			t.Errorf("unexpected event type %q", ev.EventType)
		}
	}
}
