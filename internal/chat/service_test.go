package chat

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umang00/companion-backend/internal/retrieval"
	"github.com/Umang00/companion-backend/internal/vectorstore"
)

type stubStore struct {
	results []vectorstore.SearchResult
}

func (s *stubStore) InsertMany(context.Context, []vectorstore.VectorDocument) error { return nil }
func (s *stubStore) DeleteBySource(context.Context, []string) error                 { return nil }
func (s *stubStore) DeleteAll(context.Context) error                                { return nil }
func (s *stubStore) Stats(context.Context) (*vectorstore.IndexStats, error)         { return nil, nil }
func (s *stubStore) Search(context.Context, []float32, int) ([]vectorstore.SearchResult, error) {
	return s.results, nil
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	return []float32{0.5}, nil
}

func newTestService(store *stubStore, gw *fakeGateway) *Service {
	logger := slog.Default()
	engine := retrieval.NewEngine(store, stubEmbedder{}, logger)
	followups := NewFollowUpGenerator(gw, "gpt-4o-mini", logger)
	return NewService(engine, gw, followups, nil, "claude-sonnet-4-20250514", logger)
}

func TestQueryNoResultsReturnsHonestAnswer(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestService(&stubStore{}, gw)

	resp, err := svc.Query(context.Background(), "What is your favorite opera?", nil)
	require.NoError(t, err)

	assert.Equal(t, noContextReply, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, resp.Suggestions)
	assert.Empty(t, gw.chatLog, "no generation call without context")
}

func TestQueryAnswersFromRetrievedContext(t *testing.T) {
	gw := &fakeGateway{reply: `["Q1?", "Q2?", "Q3?"]`}
	store := &stubStore{results: []vectorstore.SearchResult{{
		Text:        "Senior Engineer at Acme Corp from 2019 to 2023.",
		Category:    "resume",
		Subcategory: "experience",
		Metadata:    map[string]any{},
		Score:       0.8,
	}}}
	svc := newTestService(store, gw)

	resp, err := svc.Query(context.Background(), "Where have you worked?", nil)
	require.NoError(t, err)

	assert.Equal(t, gw.reply, resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Len(t, resp.Suggestions, 3)
	assert.False(t, resp.Cached)

	// First call generates the answer with retrieved context in the prompt.
	require.NotEmpty(t, gw.chatLog)
	first := gw.chatLog[0]
	assert.Equal(t, "system", first.Messages[0].Role)
	last := first.Messages[len(first.Messages)-1]
	assert.Contains(t, last.Content, "Senior Engineer at Acme Corp")
	assert.Contains(t, last.Content, "[Source 1: resume/experience]")
	assert.Contains(t, last.Content, "Where have you worked?")
}

func TestQueryPassesHistoryToModel(t *testing.T) {
	gw := &fakeGateway{reply: `["Q1?", "Q2?", "Q3?"]`}
	store := &stubStore{results: []vectorstore.SearchResult{{
		Text:     "Built the billing system.",
		Category: "resume",
		Metadata: map[string]any{},
		Score:    0.7,
	}}}
	svc := newTestService(store, gw)

	history := []Turn{
		{Role: "user", Content: "What did you build?"},
		{Role: "assistant", Content: "A billing system."},
	}
	_, err := svc.Query(context.Background(), "What was hard about it?", history)
	require.NoError(t, err)

	require.NotEmpty(t, gw.chatLog)
	msgs := gw.chatLog[0].Messages
	require.Len(t, msgs, 4, "system + two history turns + question")
	assert.Equal(t, "What did you build?", msgs[1].Content)
	assert.Equal(t, "A billing system.", msgs[2].Content)
}
