package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/Umang00/companion-backend/internal/changedetect"
	"github.com/Umang00/companion-backend/internal/config"
	"github.com/Umang00/companion-backend/internal/database"
	"github.com/Umang00/companion-backend/internal/embedding"
	"github.com/Umang00/companion-backend/internal/indexer"
	"github.com/Umang00/companion-backend/internal/llm"
	"github.com/Umang00/companion-backend/internal/loader"
	"github.com/Umang00/companion-backend/internal/metadata"
	"github.com/Umang00/companion-backend/internal/queue"
	"github.com/Umang00/companion-backend/internal/queue/workers"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
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

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// One rebuild at a time.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	reindexWorker := workers.NewReindexWorker(builder)
	mux := queue.NewMux(map[string]asynq.Handler{
		queue.TypeMemoryReindex: asynq.HandlerFunc(reindexWorker.ProcessTask),
	})

	slog.Info("starting worker")
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
