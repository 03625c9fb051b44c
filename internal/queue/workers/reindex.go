package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/Umang00/companion-backend/internal/indexer"
	"github.com/Umang00/companion-backend/internal/queue"
)

type ReindexWorker struct {
	builder *indexer.Builder
}

func NewReindexWorker(builder *indexer.Builder) *ReindexWorker {
	return &ReindexWorker{builder: builder}
}

func (w *ReindexWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.MemoryReindexPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("reindex task started", "force", payload.Force)

	res := w.builder.Build(ctx, payload.Force)
	if !res.Success {
		return fmt.Errorf("index build: %s", res.Error)
	}

	slog.Info("reindex task finished",
		"skipped", res.Skipped,
		"chunks", res.ChunksCreated,
		"documents", res.DocumentsProcessed)
	return nil
}
