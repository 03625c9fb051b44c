package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Umang00/companion-backend/internal/llm"
)

const compressAfterTurns = 10

// HistoryCompressor keeps long conversations under the model's effective
// context by folding older turns into a summary turn. Conversations are
// stateless on the server; the client sends history with each request and
// receives the compressed form back.
type HistoryCompressor struct {
	gateway llm.Gateway
	model   string
}

func NewHistoryCompressor(gw llm.Gateway, model string) *HistoryCompressor {
	return &HistoryCompressor{gateway: gw, model: model}
}

// Compress folds the older half of the history into a single system turn
// once it exceeds the threshold. On any failure the history is returned
// unchanged; a long prompt beats a lost conversation.
func (h *HistoryCompressor) Compress(ctx context.Context, history []Turn) []Turn {
	if len(history) <= compressAfterTurns {
		return history
	}

	midpoint := len(history) / 2
	older := history[:midpoint]

	var sb strings.Builder
	for _, t := range older {
		fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
	}

	resp, err := h.gateway.Chat(ctx, llm.ChatRequest{
		Model: h.model,
		Messages: []llm.Message{
			{
				Role: "system",
				Content: `Summarize this conversation between a visitor and a personal AI companion
into one concise paragraph. Keep the topics asked about and the key facts given in answers.`,
			},
			{Role: "user", Content: sb.String()},
		},
		Temperature: 0,
		MaxTokens:   300,
	})
	if err != nil {
		return history
	}

	compressed := make([]Turn, 0, len(history)-midpoint+1)
	compressed = append(compressed, Turn{
		Role:    "system",
		Content: "Earlier conversation summary: " + strings.TrimSpace(resp.Content),
	})
	compressed = append(compressed, history[midpoint:]...)
	return compressed
}
