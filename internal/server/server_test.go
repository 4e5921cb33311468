// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studyhive/internal/cache"
	"github.com/studyhive/internal/chunker"
	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/progress"
	"github.com/studyhive/internal/queue"
	"github.com/studyhive/internal/ratelimit"
)

func newTestServer(t *testing.T) (*Server, *queue.MemoryQueue, *database.DocumentStore, *database.SummaryStore) {
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
	events, err := database.NewEventLogger(db)
	if err != nil {
		t.Fatalf("event logger: %v", err)
	}

	jobs := queue.NewMemoryQueue(16)
	srv := New(
		chunker.New(chunker.DefaultLimits()),
		cache.New(32, time.Minute),
		ratelimit.New(100, time.Minute),
		docs, sums, events,
		progress.NewTracker(),
		jobs,
		nil, // vector search disabled
		nil, // no log broadcaster
	)
	return srv, jobs, docs, sums
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

const lessonText = `Photosynthesis is defined as the process by which plants convert light energy
into chemical energy. The reaction takes place in the chloroplast, an organelle
found in plant cells. Chlorophyll absorbs light, which drives the splitting of
water molecules and releases oxygen as a byproduct. The light-dependent
reactions produce ATP and NADPH, which the Calvin cycle then consumes to fix
carbon dioxide into glucose. Cellular respiration refers to the reverse
process, in which glucose is broken down to release the stored energy.`

func TestHealthEndpoint(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/analyze", map[string]string{"text": lessonText})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result struct {
		KeyConcepts []struct {
			Term string `json:"term"`
		} `json:"keyConcepts"`
		ContentQuality float64 `json:"contentQuality"`
	}
	decode(t, rec, &result)
	if len(result.KeyConcepts) == 0 {
		t.Error("expected key concepts in analysis")
	}
	if result.ContentQuality <= 0 {
		t.Errorf("content quality = %f, want > 0", result.ContentQuality)
	}
}

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/analyze", map[string]string{"text": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeServesCachedResult(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	h := srv.Routes()

	first := doJSON(t, h, http.MethodPost, "/api/v1/analyze", map[string]string{"text": lessonText})
	second := doJSON(t, h, http.MethodPost, "/api/v1/analyze", map[string]string{"text": lessonText})
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached response differs from original")
	}
}

func TestChunkEndpointSemantic(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/chunk", map[string]string{"text": lessonText})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Mode   string          `json:"mode"`
		Count  int             `json:"count"`
		Chunks []chunker.Chunk `json:"chunks"`
	}
	decode(t, rec, &result)
	if result.Mode != "semantic" {
		t.Errorf("mode = %q, want semantic", result.Mode)
	}
	if result.Count < 1 || len(result.Chunks) != result.Count {
		t.Errorf("count = %d with %d chunks", result.Count, len(result.Chunks))
	}
}

func TestChunkEndpointRejectsShortInput(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/chunk", map[string]string{"text": "too short"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChunkEndpointUnknownMode(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/chunk",
		map[string]string{"text": lessonText, "mode": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRateLimitReturns429(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	srv.limiter = ratelimit.New(2, time.Minute)
	h := srv.Routes()

	for i := 0; i < 2; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/analyze", map[string]string{"text": lessonText})
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := doJSON(t, h, http.MethodPost, "/api/v1/analyze", map[string]string{"text": lessonText})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
}

func TestSummarizeEnqueuesJob(t *testing.T) {
	srv, jobs, _, sums := newTestServer(t)
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/summarize",
		map[string]interface{}{"text": lessonText, "options": map[string]string{"detailLevel": "brief"}})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	decode(t, rec, &resp)
	if resp.JobID == "" || resp.Status != database.SummaryPending {
		t.Fatalf("response = %+v", resp)
	}

	sum, err := sums.Get(resp.JobID)
	if err != nil {
		t.Fatalf("summary record not created: %v", err)
	}
	if sum.Status != database.SummaryPending {
		t.Errorf("status = %q, want pending", sum.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job, err := jobs.Dequeue(ctx)
	if err != nil {
		t.Fatalf("no job enqueued: %v", err)
	}
	if job.ID != resp.JobID || job.Type != queue.TypeSummarize {
		t.Errorf("job = %+v", job)
	}
}

func TestSummarizeRejectsShortText(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/summarize",
		map[string]string{"text": "not enough"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSummarizeUnknownDocument(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/summarize",
		map[string]string{"documentId": "no-such-doc"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSummaryStatusEndpoint(t *testing.T) {
	srv, _, _, sums := newTestServer(t)
	h := srv.Routes()

	sums.Create("s1", "")
	sums.MarkDone("s1", "the finished summary", 3, true)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/summaries/s1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sum database.Summary
	decode(t, rec, &sum)
	if sum.Status != database.SummaryDone || sum.Content != "the finished summary" {
		t.Errorf("summary = %+v", sum)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/summaries/absent", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDocumentUploadAndLifecycle(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	h := srv.Routes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fmt.Fprint(fw, lessonText)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		WordCount int    `json:"wordCount"`
	}
	decode(t, rec, &created)
	if created.ID == "" || created.WordCount == 0 {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/documents", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 {
		t.Errorf("count = %d, want 1", list.Count)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/documents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var doc database.Document
	decode(t, rec, &doc)
	if !strings.Contains(doc.Content, "Photosynthesis") {
		t.Error("stored content does not match upload")
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/documents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/v1/documents/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want 404", rec.Code)
	}
}

func TestSearchUnavailableWithoutIndexer(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/search?q=photosynthesis", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/analyze", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
