package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore keeps the memory index in a pgvector-enabled Postgres table.
type PgVectorStore struct {
	db *pgxpool.Pool
}

func NewPgVectorStore(db *pgxpool.Pool) *PgVectorStore {
	return &PgVectorStore{db: db}
}

func (s *PgVectorStore) InsertMany(ctx context.Context, docs []VectorDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, d := range docs {
		id := d.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO memory_chunks (id, source, category, subcategory, content, metadata, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, d.Source, d.Category, d.Subcategory, d.Text, d.Metadata,
			pgvector.NewVector(d.Embedding), d.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PgVectorStore) DeleteBySource(ctx context.Context, sources []string) error {
	if len(sources) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, "DELETE FROM memory_chunks WHERE source = ANY($1)", sources)
	if err != nil {
		return fmt.Errorf("delete by source: %w", err)
	}
	return nil
}

func (s *PgVectorStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "DELETE FROM memory_chunks")
	if err != nil {
		return fmt.Errorf("delete all chunks: %w", err)
	}
	return nil
}

// Search returns the limit nearest chunks by cosine similarity.
func (s *PgVectorStore) Search(ctx context.Context, query []float32, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	embedding := pgvector.NewVector(query)
	rows, err := s.db.Query(ctx,
		`SELECT content, category, subcategory, metadata,
		        1 - (embedding <=> $1) AS score
		 FROM memory_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		embedding, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Text, &r.Category, &r.Subcategory, &r.Metadata, &r.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *PgVectorStore) Stats(ctx context.Context) (*IndexStats, error) {
	stats := &IndexStats{Categories: make(map[string]int)}

	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MIN(created_at), 'epoch'::timestamptz), COALESCE(MAX(created_at), 'epoch'::timestamptz)
		 FROM memory_chunks`,
	).Scan(&stats.TotalChunks, &stats.OldestChunk, &stats.NewestChunk)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}

	rows, err := s.db.Query(ctx, "SELECT category, COUNT(*) FROM memory_chunks GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		stats.Categories[cat] = n
	}
	return stats, rows.Err()
}
