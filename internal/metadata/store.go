// Package metadata persists per-source FileMetadata records in Postgres.
package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Umang00/companion-backend/internal/models"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, filename, sourceType string) (*models.FileMetadata, error) {
	var fm models.FileMetadata
	err := s.db.QueryRow(ctx,
		`SELECT filename, source_type, hash, file_size, chunk_count, last_processed
		 FROM file_metadata WHERE filename = $1 AND source_type = $2`,
		filename, sourceType,
	).Scan(&fm.Filename, &fm.SourceType, &fm.Hash, &fm.FileSize, &fm.ChunkCount, &fm.LastProcessed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file metadata: %w", err)
	}
	return &fm, nil
}

func (s *Store) List(ctx context.Context, sourceType string) ([]models.FileMetadata, error) {
	rows, err := s.db.Query(ctx,
		`SELECT filename, source_type, hash, file_size, chunk_count, last_processed
		 FROM file_metadata WHERE source_type = $1 ORDER BY filename`,
		sourceType,
	)
	if err != nil {
		return nil, fmt.Errorf("list file metadata: %w", err)
	}
	defer rows.Close()

	var out []models.FileMetadata
	for rows.Next() {
		var fm models.FileMetadata
		if err := rows.Scan(&fm.Filename, &fm.SourceType, &fm.Hash, &fm.FileSize, &fm.ChunkCount, &fm.LastProcessed); err != nil {
			return nil, fmt.Errorf("scan file metadata: %w", err)
		}
		out = append(out, fm)
	}
	return out, rows.Err()
}

// Upsert writes the record for (filename, source_type), never duplicating.
func (s *Store) Upsert(ctx context.Context, fm models.FileMetadata) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO file_metadata (filename, source_type, hash, file_size, chunk_count, last_processed)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (filename, source_type)
		 DO UPDATE SET hash = $3, file_size = $4, chunk_count = $5, last_processed = $6`,
		fm.Filename, fm.SourceType, fm.Hash, fm.FileSize, fm.ChunkCount, fm.LastProcessed,
	)
	if err != nil {
		return fmt.Errorf("upsert file metadata: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, filename, sourceType string) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM file_metadata WHERE filename = $1 AND source_type = $2",
		filename, sourceType,
	)
	return err
}
