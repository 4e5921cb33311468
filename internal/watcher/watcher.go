// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/studyhive/internal/analysis"
	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/parser"
)

// InboxWatcher watches a drop directory and ingests supported study
// material into the document library. Files already ingested with the
// same content hash are skipped.
type InboxWatcher struct {
	inboxDir  string
	documents *database.DocumentStore
	events    *database.EventLogger
	notify    bool
	debouncer *Debouncer

	mu        sync.Mutex
	ingested  map[string]string // path -> content hash
	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a watcher for inboxDir. When notify is true the watcher
// raises an OS notification for each ingested document.
func New(inboxDir string, docs *database.DocumentStore, events *database.EventLogger, notify bool) *InboxWatcher {
	w := &InboxWatcher{
		inboxDir:  inboxDir,
		documents: docs,
		events:    events,
		notify:    notify,
		ingested:  make(map[string]string),
	}
	w.debouncer = NewDebouncer(500*time.Millisecond, w.ingestFile)
	return w
}

// Start begins watching. Existing files in the inbox are queued through
// the debouncer so a pre-populated directory gets ingested on startup.
func (w *InboxWatcher) Start(ctx context.Context) error {
	absPath, err := filepath.Abs(w.inboxDir)
	if err != nil {
		return fmt.Errorf("failed to resolve inbox path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("failed to create inbox directory: %w", err)
		}
		log.Printf("Created inbox directory: %s", absPath)
	}
	w.inboxDir = absPath

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := fsw.Add(path); err != nil {
				log.Printf("Warning: failed to watch %s: %v", path, err)
			}
		}
		return nil
	}); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to walk inbox directory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsWatcher = fsw
	w.cancel = cancel

	w.wg.Add(1)
	go w.processEvents(ctx)
	go w.scanExisting()

	log.Printf("Watching inbox directory (recursive): %s", absPath)
	return nil
}

// Stop shuts the watcher down and waits for in-flight event handling.
func (w *InboxWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.debouncer.Stop()
	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			log.Printf("Error closing inbox watcher: %v", err)
		}
	}
	w.wg.Wait()
}

func (w *InboxWatcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fsWatcher.Add(event.Name); err != nil {
						log.Printf("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if parser.IsTemporaryFile(event.Name) || !parser.IsSupportedFile(event.Name) {
					continue
				}
				w.debouncer.Trigger(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Inbox watcher error: %v", err)
		}
	}
}

// scanExisting queues files already present in the inbox at startup.
func (w *InboxWatcher) scanExisting() {
	err := filepath.Walk(w.inboxDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && !parser.IsTemporaryFile(path) && parser.IsSupportedFile(path) {
			w.debouncer.Trigger(path)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error scanning inbox %s: %v", w.inboxDir, err)
	}
}

// ingestFile parses, analyzes and stores one file from the inbox.
func (w *InboxWatcher) ingestFile(filePath string) {
	hash, err := hashFile(filePath)
	if err != nil {
		log.Printf("Failed to hash %s: %v", filePath, err)
		return
	}

	w.mu.Lock()
	if prev, seen := w.ingested[filePath]; seen && prev == hash {
		w.mu.Unlock()
		log.Printf("Skipping unchanged file: %s", filePath)
		return
	}
	w.ingested[filePath] = hash
	w.mu.Unlock()

	log.Printf("Ingesting file: %s", filePath)

	doc, err := parser.ParseFile(filePath)
	if err != nil {
		log.Printf("Failed to parse %s: %v", filePath, err)
		w.logEvent("warning", filepath.Base(filePath), fmt.Sprintf("parse failed: %v", err))
		return
	}
	if doc.Text == "" {
		log.Printf("No text extracted from %s", filePath)
		w.logEvent("warning", filepath.Base(filePath), "no text extracted")
		return
	}

	result := analysis.Analyze(doc.Text)
	analysisJSON, err := json.Marshal(result)
	if err != nil {
		log.Printf("Failed to encode analysis for %s: %v", filePath, err)
	}

	record := database.Document{
		ID:           uuid.NewString(),
		Title:        doc.Title,
		Filename:     filepath.Base(filePath),
		Format:       doc.Format,
		Content:      doc.Text,
		WordCount:    doc.WordCount,
		AnalysisJSON: string(analysisJSON),
	}
	if err := w.documents.Insert(record); err != nil {
		log.Printf("Failed to store %s: %v", filePath, err)
		w.logEvent("warning", record.Filename, fmt.Sprintf("store failed: %v", err))
		return
	}

	w.logEvent("ingest", record.Filename, fmt.Sprintf("%d words, %d key concepts", doc.WordCount, len(result.KeyConcepts)))
	log.Printf("Ingested %s: id=%s words=%d", filePath, record.ID, doc.WordCount)

	if w.notify {
		msg := fmt.Sprintf("Added %q to your study library (%d words)", doc.Title, doc.WordCount)
		if err := beeep.Notify("Study material ingested", msg, ""); err != nil {
			log.Printf("Failed to send OS notification: %v", err)
		}
	}
}

func (w *InboxWatcher) logEvent(eventType, name, details string) {
	if w.events == nil {
		return
	}
	if err := w.events.LogEvent(eventType, name, details); err != nil {
		log.Printf("Failed to log event: %v", err)
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
