package vectordb

import (
	"context"
	"math"
	"sort"
	"sync"
)

type storedPoint struct {
	vector   []float32
	metadata map[string]string
}

// MockVectorDB is an in-memory VectorDB for development and tests.
type MockVectorDB struct {
	mu     sync.RWMutex
	points map[string]storedPoint
}

// NewMockVectorDB creates an empty in-memory vector store.
func NewMockVectorDB() *MockVectorDB {
	return &MockVectorDB{points: make(map[string]storedPoint)}
}

// Upsert stores a vector in memory.
func (m *MockVectorDB) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[id] = storedPoint{vector: vector, metadata: metadata}
	return nil
}

// Search returns the topK stored points by cosine similarity.
func (m *MockVectorDB) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match
	for id, p := range m.points {
		matches = append(matches, Match{
			ID:         id,
			DocumentID: p.metadata["document_id"],
			Score:      cosine(queryVector, p.vector),
			Metadata:   p.metadata,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes a vector from memory.
func (m *MockVectorDB) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.points, id)
	return nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
