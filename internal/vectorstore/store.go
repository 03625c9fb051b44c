package vectorstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VectorDocument is a chunk with its embedding attached, as persisted.
type VectorDocument struct {
	ID          uuid.UUID
	Source      string
	Category    string
	Subcategory string
	Text        string
	Metadata    map[string]any
	Embedding   []float32
	CreatedAt   time.Time
}

// SearchResult is a scored retrieval candidate. Score is mutated in place
// during re-ranking; results are never persisted.
type SearchResult struct {
	Text        string         `json:"text"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	Score       float64        `json:"score"`
}

// IndexStats summarizes the stored index for observability.
type IndexStats struct {
	TotalChunks int            `json:"total_chunks"`
	Categories  map[string]int `json:"categories"`
	OldestChunk time.Time      `json:"oldest_chunk"`
	NewestChunk time.Time      `json:"newest_chunk"`
}

// Store is the vector index the pipeline writes to and queries.
type Store interface {
	InsertMany(ctx context.Context, docs []VectorDocument) error
	DeleteBySource(ctx context.Context, sources []string) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query []float32, limit int) ([]SearchResult, error)
	Stats(ctx context.Context) (*IndexStats, error)
}
