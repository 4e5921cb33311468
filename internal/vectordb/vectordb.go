// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package vectordb

import (
	"context"
	"errors"
	"fmt"
	"log"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

// Match represents a vector search hit.
type Match struct {
	ID         string
	DocumentID string
	Score      float32
	Metadata   map[string]string
}

// VectorDB stores chunk vectors for related-content search.
type VectorDB interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error
	Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error)
	Delete(ctx context.Context, id string) error
}

// QdrantVectorDB is a thin wrapper around the Qdrant gRPC clients.
type QdrantVectorDB struct {
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	collection  string
	dimension   uint64
}

// NewQdrantVectorDB constructs the wrapper and ensures the chunk collection
// exists with the given vector dimension.
func NewQdrantVectorDB(conn grpc.ClientConnInterface, dimension int) (*QdrantVectorDB, error) {
	if conn == nil {
		return nil, errors.New("qdrant connection is required")
	}
	if dimension <= 0 {
		dimension = 1536
	}

	vdb := &QdrantVectorDB{
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		collection:  "study_chunks",
		dimension:   uint64(dimension),
	}

	if err := vdb.ensureCollection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	return vdb, nil
}

// ensureCollection creates the collection if it doesn't already exist.
func (q *QdrantVectorDB) ensureCollection(ctx context.Context) error {
	list, err := q.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == q.collection {
			return nil
		}
	}

	log.Printf("ensureCollection: creating %s dim=%d", q.collection, q.dimension)
	_, err = q.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     q.dimension,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// Upsert stores or updates one chunk vector.
func (q *QdrantVectorDB) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error {
	if len(vector) == 0 {
		return errors.New("vector cannot be empty")
	}

	payload := make(map[string]*qdrant.Value, len(metadata))
	for k, v := range metadata {
		payload[k] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
	}

	wait := true
	_, err := q.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id: &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}},
				Vectors: &qdrant.Vectors{
					VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vector}},
				},
				Payload: payload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point %s: %w", id, err)
	}
	return nil
}

// Search performs a similarity search over the chunk collection.
func (q *QdrantVectorDB) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	if len(queryVector) == 0 {
		return nil, errors.New("query vector cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	resp, err := q.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: q.collection,
		Vector:         queryVector,
		Limit:          uint64(topK),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]Match, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		m := Match{
			ID:       p.GetId().GetUuid(),
			Score:    p.GetScore(),
			Metadata: make(map[string]string),
		}
		for k, v := range p.GetPayload() {
			m.Metadata[k] = v.GetStringValue()
		}
		m.DocumentID = m.Metadata["document_id"]
		matches = append(matches, m)
	}
	return matches, nil
}

// Delete removes one chunk vector.
func (q *QdrantVectorDB) Delete(ctx context.Context, id string) error {
	wait := true
	_, err := q.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id}}},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete point %s: %w", id, err)
	}
	return nil
}
