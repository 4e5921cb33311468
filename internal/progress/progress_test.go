// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package progress

import (
	"fmt"
	"sync"
	"testing"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()

	if _, ok := tr.Get("job"); ok {
		t.Fatal("Get on empty tracker should miss")
	}

	tr.Set("job", Status{Stage: "chunking", TotalChunks: 4})
	tr.Set("job", Status{Stage: "summarizing", ProcessedChunks: 2, TotalChunks: 4})

	s, ok := tr.Get("job")
	if !ok {
		t.Fatal("expected snapshot after Set")
	}
	if s.Stage != "summarizing" || s.ProcessedChunks != 2 || s.TotalChunks != 4 {
		t.Errorf("snapshot = %+v", s)
	}

	tr.Remove("job")
	if _, ok := tr.Get("job"); ok {
		t.Error("snapshot should be gone after Remove")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("job-%d", n%5)
			tr.Set(id, Status{Stage: "running", ProcessedChunks: n})
			tr.Get(id)
			tr.Remove(id)
		}(i)
	}
	wg.Wait()
}
