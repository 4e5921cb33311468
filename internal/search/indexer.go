// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package search

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/studyhive/internal/embeddings"
	"github.com/studyhive/internal/vectordb"
)

// Indexer embeds chunk contents and stores them in the vector index so the
// search endpoint can surface related material.
type Indexer struct {
	embedder embeddings.Embedder
	store    vectordb.VectorDB
}

// NewIndexer wires the embedder and vector store.
func NewIndexer(embedder embeddings.Embedder, store vectordb.VectorDB) *Indexer {
	return &Indexer{embedder: embedder, store: store}
}

// IndexChunks embeds and upserts each chunk of a document. Individual chunk
// failures are logged and skipped; the call fails only when embedding is
// entirely unavailable.
func (ix *Indexer) IndexChunks(ctx context.Context, documentID string, contents []string) error {
	if len(contents) == 0 {
		return nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	stored := 0
	for i, vector := range vectors {
		snippet := contents[i]
		if len(snippet) > 300 {
			snippet = snippet[:300]
		}
		metadata := map[string]string{
			"document_id": documentID,
			"chunk_index": fmt.Sprintf("%d", i),
			"snippet":     snippet,
		}
		if err := ix.store.Upsert(ctx, uuid.NewString(), vector, metadata); err != nil {
			log.Printf("IndexChunks: failed to upsert chunk %d of document %s: %v", i, documentID, err)
			continue
		}
		stored++
	}
	log.Printf("IndexChunks: document=%s stored=%d/%d", documentID, stored, len(contents))
	return nil
}

// Query embeds the query text and returns the nearest chunks.
func (ix *Indexer) Query(ctx context.Context, query string, topK int) ([]vectordb.Match, error) {
	vector, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return ix.store.Search(ctx, vector, topK)
}
