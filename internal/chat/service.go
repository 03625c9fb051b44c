// Package chat answers visitor questions about the portfolio owner by
// retrieving relevant memory chunks and generating grounded responses.
package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Umang00/companion-backend/internal/cache"
	"github.com/Umang00/companion-backend/internal/llm"
	"github.com/Umang00/companion-backend/internal/retrieval"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

const (
	retrievalLimit = 6
	answerCacheTTL = time.Hour
	noContextReply = "I don't have enough information about that yet. Try asking about work experience, projects, or skills."
)

const systemPrompt = `You are a personal AI companion that answers questions about the portfolio owner on their behalf.
Answer in first person, warmly and concisely, using ONLY the provided context.
If the context does not cover the question, say you don't have that information rather than guessing.
Do not mention the context, sources, or retrieval in your answer.`

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Response struct {
	Answer      string                     `json:"answer"`
	Sources     []vectorstore.SearchResult `json:"sources"`
	Suggestions []string                   `json:"suggestions"`
	Cached      bool                       `json:"cached"`
}

type Service struct {
	engine    *retrieval.Engine
	gateway   llm.Gateway
	followups *FollowUpGenerator
	cache     *cache.Cache
	model     string
	logger    *slog.Logger
}

func NewService(engine *retrieval.Engine, gw llm.Gateway, followups *FollowUpGenerator, c *cache.Cache, model string, logger *slog.Logger) *Service {
	return &Service{
		engine:    engine,
		gateway:   gw,
		followups: followups,
		cache:     c,
		model:     model,
		logger:    logger,
	}
}

// Query answers a visitor question. History carries prior turns of the same
// conversation; answers to history-free questions are cached by query text.
func (s *Service) Query(ctx context.Context, query string, history []Turn) (*Response, error) {
	cacheable := len(history) == 0 && s.cache != nil
	key := answerCacheKey(query)

	if cacheable {
		var cached Response
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			cached.Cached = true
			return &cached, nil
		}
	}

	filters := retrieval.AnalyzeQueryForCategories(query)
	results, err := s.engine.Search(ctx, query, retrieval.Options{
		Limit:       retrievalLimit,
		Categories:  filters,
		BoostRecent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		return &Response{
			Answer:      noContextReply,
			Sources:     []vectorstore.SearchResult{},
			Suggestions: []string{},
		}, nil
	}

	messages := []llm.Message{{Role: "system", Content: systemPrompt}}
	for _, t := range history {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", buildContext(results), query),
	})

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	suggestions := s.followups.Generate(ctx, query, resp.Content)

	out := &Response{
		Answer:      resp.Content,
		Sources:     results,
		Suggestions: suggestions,
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, out, answerCacheTTL); err != nil {
			s.logger.Warn("answer cache write failed", "error", err)
		}
	}

	return out, nil
}

func buildContext(results []vectorstore.SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		label := r.Category
		if r.Subcategory != "" {
			label += "/" + r.Subcategory
		}
		fmt.Fprintf(&sb, "[Source %d: %s]\n%s\n\n", i+1, label, r.Text)
	}
	return sb.String()
}

func answerCacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "chat:answer:" + hex.EncodeToString(sum[:])
}
