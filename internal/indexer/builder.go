// Package indexer orchestrates full and incremental rebuilds of the memory
// index: change detection, document loading, chunking, embedding and storage.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Umang00/companion-backend/internal/changedetect"
	"github.com/Umang00/companion-backend/internal/chunker"
	"github.com/Umang00/companion-backend/internal/loader"
	"github.com/Umang00/companion-backend/internal/models"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

// Stage labels the pipeline step a build is in, for logging and for the
// failure report when a step aborts the build.
type Stage string

const (
	StageCheckingChanges  Stage = "checking_changes"
	StageLoading          Stage = "loading"
	StageDeletingStale    Stage = "deleting_stale"
	StageChunking         Stage = "chunking"
	StageEmbedding        Stage = "embedding"
	StageStoring          Stage = "storing"
	StageUpdatingMetadata Stage = "updating_metadata"
	StageDone             Stage = "done"
	StageSkipped          Stage = "skipped"
	StageFailed           Stage = "failed"
)

// PDFSource lists and loads local documents.
type PDFSource interface {
	List() ([]string, error)
	Load(ctx context.Context, filename string) (*loader.Document, error)
}

// RepoSource fetches remote repositories with their READMEs.
type RepoSource interface {
	FetchRepos(ctx context.Context) ([]loader.Repo, error)
}

// Embedder turns chunk texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// MetadataStore persists per-source processing state.
type MetadataStore interface {
	changedetect.MetadataStore
	Upsert(ctx context.Context, fm models.FileMetadata) error
}

// BuildResult reports the outcome of a build. Errors surface here, never as
// a panic or a returned error: callers always get a result they can report.
type BuildResult struct {
	Success            bool     `json:"success"`
	Skipped            bool     `json:"skipped"`
	Stage              Stage    `json:"stage"`
	ChunksCreated      int      `json:"chunks_created"`
	DocumentsProcessed int      `json:"documents_processed"`
	FilesUpdated       []string `json:"files_updated,omitempty"`
	Error              string   `json:"error,omitempty"`
	Duration           string   `json:"duration"`
}

type Builder struct {
	pdfs     PDFSource
	repos    RepoSource
	detector *changedetect.Detector
	embedder Embedder
	store    vectorstore.Store
	meta     MetadataStore
	logger   *slog.Logger
}

func NewBuilder(pdfs PDFSource, repos RepoSource, detector *changedetect.Detector, embedder Embedder, store vectorstore.Store, meta MetadataStore, logger *slog.Logger) *Builder {
	return &Builder{
		pdfs:     pdfs,
		repos:    repos,
		detector: detector,
		embedder: embedder,
		store:    store,
		meta:     meta,
		logger:   logger,
	}
}

// Build runs the index pipeline. With force set every source is reprocessed
// and the whole index is wiped first; otherwise only sources the change
// detector flags are touched and their old vectors are replaced in place.
func (b *Builder) Build(ctx context.Context, force bool) *BuildResult {
	start := time.Now()
	res := &BuildResult{Stage: StageCheckingChanges}
	fail := func(stage Stage, err error) *BuildResult {
		b.logger.Error("index build failed", "stage", string(stage), "error", err)
		res.Stage = StageFailed
		res.Error = fmt.Sprintf("%s: %v", stage, err)
		res.Duration = time.Since(start).String()
		return res
	}

	b.logger.Info("index build started", "force", force)

	// Loading happens alongside change detection: repo change detection
	// needs the fetched repo list, and PDF hashes come free with the read.
	repos, repoErr := b.repos.FetchRepos(ctx)
	if repoErr != nil {
		// A GitHub outage should not block reindexing local documents.
		b.logger.Warn("repo fetch failed, continuing with local documents only", "error", repoErr)
		repos = nil
	}

	var changedPDFs, changedRepos []string
	if force {
		var err error
		changedPDFs, err = b.pdfs.List()
		if err != nil {
			return fail(StageCheckingChanges, fmt.Errorf("list documents: %w", err))
		}
		for _, r := range repos {
			changedRepos = append(changedRepos, r.Name)
		}
	} else {
		var err error
		changedPDFs, err = b.detector.CheckPDFChanges(ctx)
		if err != nil {
			return fail(StageCheckingChanges, err)
		}
		changedRepos, err = b.detector.CheckGitHubChanges(ctx, repoStates(repos))
		if err != nil {
			return fail(StageCheckingChanges, err)
		}
		if _, err := b.detector.FindDeletedFiles(ctx); err != nil {
			b.logger.Warn("deleted-file scan failed", "error", err)
		}
	}

	if len(changedPDFs) == 0 && len(changedRepos) == 0 {
		b.logger.Info("index build skipped, no changes detected")
		res.Skipped = true
		res.Success = true
		res.Stage = StageSkipped
		res.Duration = time.Since(start).String()
		return res
	}

	res.Stage = StageLoading
	changedRepoSet := make(map[string]bool, len(changedRepos))
	for _, name := range changedRepos {
		changedRepoSet[name] = true
	}

	var docs []*loader.Document
	for _, filename := range changedPDFs {
		doc, err := b.pdfs.Load(ctx, filename)
		if err != nil {
			// One corrupt file must not sink the rest of the build.
			b.logger.Error("document load failed, skipping", "file", filename, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	var changedRepoDocs []loader.Repo
	for _, r := range repos {
		if changedRepoSet[r.Name] {
			changedRepoDocs = append(changedRepoDocs, r)
		}
	}

	if len(docs) == 0 && len(changedRepoDocs) == 0 {
		return fail(StageLoading, fmt.Errorf("no sources could be loaded"))
	}

	res.Stage = StageDeletingStale
	if force {
		if err := b.store.DeleteAll(ctx); err != nil {
			return fail(StageDeletingStale, err)
		}
	} else {
		var stale []string
		for _, d := range docs {
			stale = append(stale, d.Filename)
		}
		for _, r := range changedRepoDocs {
			stale = append(stale, r.Name)
		}
		if err := b.store.DeleteBySource(ctx, stale); err != nil {
			return fail(StageDeletingStale, err)
		}
	}

	res.Stage = StageChunking
	var chunks []models.Chunk
	for _, d := range docs {
		chunks = append(chunks, b.chunkDocument(d)...)
		res.DocumentsProcessed++
		res.FilesUpdated = append(res.FilesUpdated, d.Filename)
	}
	for _, r := range changedRepoDocs {
		chunks = append(chunks, chunkRepo(r)...)
		res.DocumentsProcessed++
		res.FilesUpdated = append(res.FilesUpdated, r.Name)
	}

	valid := chunks[:0]
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			b.logger.Error("invalid chunk dropped", "source", c.Source(), "error", err)
			continue
		}
		valid = append(valid, c)
	}
	chunks = valid

	if len(chunks) == 0 {
		return fail(StageChunking, fmt.Errorf("no chunks created"))
	}
	b.logger.Info("chunking complete", "chunks", len(chunks), "documents", res.DocumentsProcessed)

	res.Stage = StageEmbedding
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return fail(StageEmbedding, err)
	}

	res.Stage = StageStoring
	vdocs := make([]vectorstore.VectorDocument, len(chunks))
	now := time.Now().UTC()
	for i, c := range chunks {
		vdocs[i] = vectorstore.VectorDocument{
			ID:          uuid.New(),
			Source:      c.Source(),
			Category:    c.Category,
			Subcategory: c.Subcategory,
			Text:        c.Text,
			Metadata:    c.Metadata,
			Embedding:   vectors[i],
			CreatedAt:   now,
		}
	}
	if err := b.store.InsertMany(ctx, vdocs); err != nil {
		return fail(StageStoring, err)
	}

	res.Stage = StageUpdatingMetadata
	chunkCounts := make(map[string]int)
	for _, c := range chunks {
		chunkCounts[c.Source()]++
	}
	for _, d := range docs {
		fm := models.FileMetadata{
			Filename:      d.Filename,
			SourceType:    models.SourceTypePDF,
			Hash:          d.Hash,
			FileSize:      d.FileSize,
			ChunkCount:    chunkCounts[d.Filename],
			LastProcessed: now,
		}
		if err := b.meta.Upsert(ctx, fm); err != nil {
			return fail(StageUpdatingMetadata, err)
		}
	}
	for _, r := range changedRepoDocs {
		fm := models.FileMetadata{
			Filename:      r.Name,
			SourceType:    models.SourceTypeGitHub,
			Hash:          changedetect.GitHubHash(r.Name, r.UpdatedAt),
			ChunkCount:    chunkCounts[r.Name],
			LastProcessed: now,
		}
		if err := b.meta.Upsert(ctx, fm); err != nil {
			return fail(StageUpdatingMetadata, err)
		}
	}

	res.Stage = StageDone
	res.Success = true
	res.ChunksCreated = len(chunks)
	res.Duration = time.Since(start).String()
	b.logger.Info("index build finished",
		"chunks", res.ChunksCreated,
		"documents", res.DocumentsProcessed,
		"duration", res.Duration)
	return res
}

func (b *Builder) chunkDocument(d *loader.Document) []models.Chunk {
	switch d.Type {
	case loader.DocTypeResume:
		return chunker.ChunkResume(d.Content, d.Filename)
	case loader.DocTypeLinkedIn:
		return chunker.ChunkLinkedIn(d.Content, d.Filename)
	case loader.DocTypeJourney:
		return chunker.ChunkJourney(d.Content, d.Filename, d.Year)
	default:
		return chunker.ChunkGeneric(d.Content, d.Filename, chunker.DefaultGenericTarget)
	}
}

func chunkRepo(r loader.Repo) []models.Chunk {
	meta := chunker.RepoMetadata{
		Name:        r.Name,
		Description: r.Description,
		Language:    r.Language,
		Stars:       r.Stars,
		Topics:      r.Topics,
	}
	return chunker.ChunkGitHub(r.Readme, meta, r.Name, r.UpdatedAt.Year())
}

func repoStates(repos []loader.Repo) []changedetect.RepoState {
	states := make([]changedetect.RepoState, len(repos))
	for i, r := range repos {
		states[i] = changedetect.RepoState{Name: r.Name, UpdatedAt: r.UpdatedAt}
	}
	return states
}
