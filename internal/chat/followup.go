package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Umang00/companion-backend/internal/llm"
)

const (
	followUpCount    = 3
	followUpDeadline = 30 * time.Second
	followUpAttempts = 3
)

// backoffs between generation attempts.
var followUpBackoffs = []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}

// FollowUpGenerator suggests next questions a visitor might ask. Generation
// is rate limited and best effort: any failure falls back to deterministic
// suggestions so the chat response never blocks on it.
type FollowUpGenerator struct {
	gateway llm.Gateway
	model   string
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewFollowUpGenerator(gw llm.Gateway, model string, logger *slog.Logger) *FollowUpGenerator {
	return &FollowUpGenerator{
		gateway: gw,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:  logger,
	}
}

// Generate returns exactly three follow-up questions for the exchange.
func (g *FollowUpGenerator) Generate(ctx context.Context, query, answer string) []string {
	ctx, cancel := context.WithTimeout(ctx, followUpDeadline)
	defer cancel()

	for attempt := 0; attempt < followUpAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return g.Fallback(query)
			case <-time.After(followUpBackoffs[attempt-1]):
			}
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return g.Fallback(query)
		}

		questions, err := g.generate(ctx, query, answer)
		if err != nil {
			g.logger.Warn("follow-up generation failed", "attempt", attempt+1, "error", err)
			continue
		}
		return questions
	}
	return g.Fallback(query)
}

func (g *FollowUpGenerator) generate(ctx context.Context, query, answer string) ([]string, error) {
	resp, err := g.gateway.Chat(ctx, llm.ChatRequest{
		Model: g.model,
		Messages: []llm.Message{
			{
				Role: "system",
				Content: `Given a question a visitor asked about a person and the answer they received,
suggest 3 short follow-up questions the visitor might ask next, phrased in second person ("you").
Return ONLY a JSON array of 3 strings.`,
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Question: %s\n\nAnswer: %s", query, answer),
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(resp.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var questions []string
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("parse follow-up questions: %w", err)
	}
	if len(questions) < followUpCount {
		return nil, fmt.Errorf("expected %d questions, got %d", followUpCount, len(questions))
	}
	return questions[:followUpCount], nil
}

var (
	workQueryRe    = regexp.MustCompile(`(?i)\b(work(ing)?|jobs?|roles?|compan(y|ies)|careers?|experiences?)\b`)
	projectQueryRe = regexp.MustCompile(`(?i)\b(projects?|repos?|built|code(base)?|open[- ]source)\b`)
	skillQueryRe   = regexp.MustCompile(`(?i)\b(skills?|technolog(y|ies)|stacks?|tool(s|ing)?|frameworks?)\b`)
)

// Fallback returns deterministic suggestions keyed off the query topic.
func (g *FollowUpGenerator) Fallback(query string) []string {
	switch {
	case workQueryRe.MatchString(query):
		return []string{
			"What was your biggest achievement in that role?",
			"What technologies did you work with there?",
			"Why did you move on from that position?",
		}
	case projectQueryRe.MatchString(query):
		return []string{
			"What was the hardest part of building that?",
			"What technologies power that project?",
			"What would you do differently today?",
		}
	case skillQueryRe.MatchString(query):
		return []string{
			"How did you learn those skills?",
			"Which skill are you improving right now?",
			"What projects showcase those skills best?",
		}
	default:
		return []string{
			"What are you working on these days?",
			"What has been your proudest professional moment?",
			"Where do you see your career heading?",
		}
	}
}
