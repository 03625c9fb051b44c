package models

import (
	"errors"
	"time"
)

// Source types tracked by change detection.
const (
	SourceTypePDF    = "pdf"
	SourceTypeGitHub = "github"
)

// ErrNotFound is returned by metadata lookups for untracked sources.
var ErrNotFound = errors.New("file metadata not found")

// FileMetadata is the per-source change-detection record. Exactly one record
// exists per (filename, source_type) pair; it is upserted after every
// successful chunk+embed+store cycle. For GitHub sources Hash is synthetic,
// derived from name:updatedAt, so the same comparison works for both kinds.
type FileMetadata struct {
	Filename      string    `json:"filename"`
	SourceType    string    `json:"source_type"`
	Hash          string    `json:"hash"`
	FileSize      int64     `json:"file_size"`
	ChunkCount    int       `json:"chunk_count"`
	LastProcessed time.Time `json:"last_processed"`
}
