package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Umang00/companion-backend/internal/indexer"
	"github.com/Umang00/companion-backend/internal/queue"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

type MemoryHandler struct {
	builder *indexer.Builder
	store   vectorstore.Store
	queue   *queue.Client
}

func NewMemoryHandler(builder *indexer.Builder, store vectorstore.Store, q *queue.Client) *MemoryHandler {
	return &MemoryHandler{builder: builder, store: store, queue: q}
}

type rebuildRequest struct {
	Force bool `json:"force"`
}

// Rebuild runs the index pipeline synchronously and returns its result.
// The build can take minutes with many changed sources; Enqueue is the
// non-blocking alternative.
func (h *MemoryHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	res := h.builder.Build(r.Context(), req.Force)

	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

// Enqueue schedules a rebuild on the worker and returns immediately.
func (h *MemoryHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	if err := h.queue.EnqueueMemoryReindex(queue.MemoryReindexPayload{Force: req.Force}); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to enqueue rebuild"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *MemoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read index stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
