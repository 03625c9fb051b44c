// Package changedetect decides which sources need reprocessing by comparing
// content hashes (local files) or remote timestamps (GitHub) against stored
// file metadata, enabling incremental index rebuilds.
package changedetect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Umang00/companion-backend/internal/models"
)

// MetadataStore is the slice of the metadata store the detector needs.
type MetadataStore interface {
	Get(ctx context.Context, filename, sourceType string) (*models.FileMetadata, error)
	List(ctx context.Context, sourceType string) ([]models.FileMetadata, error)
}

// RepoState is the minimal remote-repo identity used for change comparison.
type RepoState struct {
	Name      string
	UpdatedAt time.Time
}

type Detector struct {
	meta    MetadataStore
	docsDir string
}

func New(meta MetadataStore, docsDir string) *Detector {
	return &Detector{meta: meta, docsDir: docsDir}
}

// HashBytes returns the hex sha256 of b.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// GitHubHash derives a synthetic content hash from a repo's name and
// updatedAt timestamp, so remote sources reuse the same comparison primitive
// as local files.
func GitHubHash(name string, updatedAt time.Time) string {
	return HashBytes([]byte(fmt.Sprintf("%s:%s", name, updatedAt.UTC().Format(time.RFC3339))))
}

// CheckPDFChanges hashes every PDF in the documents directory and returns the
// filenames classified as new or changed. A hash match with a differing
// stored file size is also flagged changed; that should not happen, but a
// partial metadata write would otherwise go unnoticed forever.
func (d *Detector) CheckPDFChanges(ctx context.Context) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(d.docsDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("glob documents dir: %w", err)
	}

	var changed []string
	for _, path := range paths {
		filename := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("unreadable document skipped", "file", filename, "error", err)
			continue
		}
		hash := HashBytes(data)

		stored, err := d.meta.Get(ctx, filename, models.SourceTypePDF)
		switch {
		case errors.Is(err, models.ErrNotFound):
			slog.Info("new document detected", "file", filename)
			changed = append(changed, filename)
		case err != nil:
			return nil, fmt.Errorf("get metadata for %s: %w", filename, err)
		case stored.Hash != hash:
			slog.Info("document content changed", "file", filename)
			changed = append(changed, filename)
		case stored.FileSize != int64(len(data)):
			slog.Warn("hash match but size mismatch, reprocessing", "file", filename)
			changed = append(changed, filename)
		}
	}
	return changed, nil
}

// CheckGitHubChanges compares each repo's updatedAt against the stored
// synthetic hash; any mismatch or absence marks it changed. A repo touched by
// a non-README commit triggers an unnecessary reprocess; that conservative
// false positive is accepted over hashing remote content.
func (d *Detector) CheckGitHubChanges(ctx context.Context, repos []RepoState) ([]string, error) {
	var changed []string
	for _, r := range repos {
		hash := GitHubHash(r.Name, r.UpdatedAt)

		stored, err := d.meta.Get(ctx, r.Name, models.SourceTypeGitHub)
		switch {
		case errors.Is(err, models.ErrNotFound):
			slog.Info("new repo detected", "repo", r.Name)
			changed = append(changed, r.Name)
		case err != nil:
			return nil, fmt.Errorf("get metadata for repo %s: %w", r.Name, err)
		case stored.Hash != hash:
			slog.Info("repo updated upstream", "repo", r.Name)
			changed = append(changed, r.Name)
		}
	}
	return changed, nil
}

// FindDeletedFiles reports tracked local files that no longer exist on disk.
// Diagnostic only: their vectors are not purged here, a forced rebuild is the
// supported cleanup path.
func (d *Detector) FindDeletedFiles(ctx context.Context) ([]string, error) {
	stored, err := d.meta.List(ctx, models.SourceTypePDF)
	if err != nil {
		return nil, fmt.Errorf("list tracked files: %w", err)
	}

	var deleted []string
	for _, fm := range stored {
		if _, err := os.Stat(filepath.Join(d.docsDir, fm.Filename)); os.IsNotExist(err) {
			slog.Warn("tracked file missing on disk, stale vectors remain", "file", fm.Filename)
			deleted = append(deleted, fm.Filename)
		}
	}
	return deleted, nil
}
