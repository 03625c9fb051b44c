package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Umang00/companion-backend/internal/chat"
)

const maxQueryLen = 2000

type ChatHandler struct {
	svc        *chat.Service
	compressor *chat.HistoryCompressor
}

func NewChatHandler(svc *chat.Service, compressor *chat.HistoryCompressor) *ChatHandler {
	return &ChatHandler{svc: svc, compressor: compressor}
}

type chatRequest struct {
	Query   string      `json:"query"`
	History []chat.Turn `json:"history,omitempty"`
}

type chatResponse struct {
	*chat.Response
	History []chat.Turn `json:"history"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}
	if len(req.Query) > maxQueryLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query too long"})
		return
	}

	history := h.compressor.Compress(r.Context(), req.History)

	resp, err := h.svc.Query(r.Context(), req.Query, history)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to answer query"})
		return
	}

	history = append(history, chat.Turn{Role: "user", Content: req.Query})
	history = append(history, chat.Turn{Role: "assistant", Content: resp.Answer})

	writeJSON(w, http.StatusOK, chatResponse{Response: resp, History: history})
}
