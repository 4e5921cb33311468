// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package progress

import (
	"sync"
)

// Status is the progress snapshot for one running pipeline, polled by the
// status endpoint. There is no push channel; callers poll.
type Status struct {
	Stage           string `json:"stage"`
	ProcessedChunks int    `json:"processedChunks"`
	TotalChunks     int    `json:"totalChunks"`
}

// Tracker holds per-job progress snapshots. It is an explicit injected
// component, not a module-level singleton, and is safe for concurrent use.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]Status
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]Status)}
}

// Set replaces the snapshot for a job.
func (t *Tracker) Set(jobID string, s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[jobID] = s
}

// Get returns the snapshot for a job and whether it exists.
func (t *Tracker) Get(jobID string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.jobs[jobID]
	return s, ok
}

// Remove drops a finished job's snapshot.
func (t *Tracker) Remove(jobID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, jobID)
}
