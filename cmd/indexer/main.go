// One-shot index build for cron jobs and local runs. Prints the build
// result as JSON and exits non-zero on failure.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/Umang00/companion-backend/internal/changedetect"
	"github.com/Umang00/companion-backend/internal/config"
	"github.com/Umang00/companion-backend/internal/database"
	"github.com/Umang00/companion-backend/internal/embedding"
	"github.com/Umang00/companion-backend/internal/indexer"
	"github.com/Umang00/companion-backend/internal/llm"
	"github.com/Umang00/companion-backend/internal/loader"
	"github.com/Umang00/companion-backend/internal/metadata"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

func main() {
	force := flag.Bool("force", false, "reprocess all sources and rebuild the index from scratch")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath, logger); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	gw := llm.NewGateway(cfg.LLM)
	meta := metadata.NewStore(db)
	builder := indexer.NewBuilder(
		loader.NewPDFLoader(cfg.Documents.Dir),
		loader.NewGitHubLoader(cfg.GitHub.Token, cfg.GitHub.User),
		changedetect.New(meta, cfg.Documents.Dir),
		embedding.NewService(gw, cfg.LLM.EmbeddingModel),
		vectorstore.NewPgVectorStore(db),
		meta,
		logger,
	)

	res := builder.Build(ctx, *force)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(res)

	if !res.Success {
		os.Exit(1)
	}
}
