package retrieval

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umang00/companion-backend/internal/vectorstore"
)

type fakeStore struct {
	results   []vectorstore.SearchResult
	lastLimit int
}

func (f *fakeStore) InsertMany(context.Context, []vectorstore.VectorDocument) error { return nil }
func (f *fakeStore) DeleteBySource(context.Context, []string) error                 { return nil }
func (f *fakeStore) DeleteAll(context.Context) error                                { return nil }
func (f *fakeStore) Stats(context.Context) (*vectorstore.IndexStats, error)         { return nil, nil }

func (f *fakeStore) Search(_ context.Context, _ []float32, limit int) ([]vectorstore.SearchResult, error) {
	f.lastLimit = limit
	return f.results, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func result(category, sub string, score float64, meta map[string]any) vectorstore.SearchResult {
	if meta == nil {
		meta = map[string]any{}
	}
	return vectorstore.SearchResult{
		Text:        "some retrieved text about the topic in question for testing",
		Category:    category,
		Subcategory: sub,
		Metadata:    meta,
		Score:       score,
	}
}

func newTestEngine(store *fakeStore) *Engine {
	return NewEngine(store, fakeEmbedder{}, slog.Default())
}

func TestSearchOverFetchesAndTruncates(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 12; i++ {
		store.results = append(store.results, result("generic", "", 0.5, nil))
	}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "anything", Options{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 12, store.lastLimit, "fetches limit x4 candidates")
	assert.Len(t, got, 3)
}

func TestSearchCategoryFilter(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		result("resume", "experience", 0.9, nil),
		result("resume", "skills", 0.9, nil),
		result("github", "readme", 0.9, nil),
	}}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "q", Options{
		Limit:      10,
		Categories: []string{"resume_experience"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "experience", got[0].Subcategory)
}

func TestSearchBareCategoryFilterMatchesAllSubcategories(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		result("resume", "experience", 0.9, nil),
		result("resume", "skills", 0.9, nil),
		result("github", "readme", 0.9, nil),
	}}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "q", Options{
		Limit:      10,
		Categories: []string{"resume"},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchYearFilter(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		result("journey", "narrative", 0.9, map[string]any{"year": float64(2023)}),
		result("journey", "narrative", 0.9, map[string]any{"year": float64(2021)}),
		result("journey", "narrative", 0.9, nil),
	}}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "q", Options{Limit: 10, YearFilter: 2023})
	require.NoError(t, err)
	// The 2021 chunk drops; the year-less chunk is kept.
	assert.Len(t, got, 2)
}

func TestSearchCategoryBoostReorders(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		result("generic", "", 0.70, nil),
		result("resume", "experience", 0.60, nil),
	}}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "q", Options{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// 0.60 x 1.3 = 0.78 beats the unboosted 0.70.
	assert.Equal(t, "resume", got[0].Category)
}

func TestSearchRecencyBoost(t *testing.T) {
	cur := time.Now().Year()
	store := &fakeStore{results: []vectorstore.SearchResult{
		result("journey", "narrative", 0.50, map[string]any{"year": cur - 5}),
		result("journey", "narrative", 0.50, map[string]any{"year": cur}),
	}}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "q", Options{Limit: 2, BoostRecent: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cur, got[0].Metadata["year"])
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestSearchDefaultLimit(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 40; i++ {
		store.results = append(store.results, result("generic", "", 0.5, nil))
	}

	e := newTestEngine(store)
	got, err := e.Search(context.Background(), "q", Options{})
	require.NoError(t, err)
	assert.Len(t, got, defaultLimit)
	assert.Equal(t, defaultLimit*overFetchFactor, store.lastLimit)
}

func TestAnalyzeQueryForCategories(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"What was your role at the company?", []string{"resume_experience", "linkedin_experience"}},
		{"Tell me about your journey last year", []string{"journey_narrative"}},
		{"Which frameworks and tools do you know?", []string{"resume_skills", "github"}},
		{"What open source projects have you built?", []string{"github"}},
		{"Where did you go to university?", []string{"resume_education"}},
		{"Hello there", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AnalyzeQueryForCategories(tc.query), tc.query)
	}
}

func TestMatchesAnyFilterSubcategoryMustMatch(t *testing.T) {
	r := result("resume", "skills", 1, nil)
	assert.True(t, matchesAnyFilter(r, []string{"resume_skills"}))
	assert.True(t, matchesAnyFilter(r, []string{"resume"}))
	assert.False(t, matchesAnyFilter(r, []string{"resume_experience"}))
	assert.False(t, matchesAnyFilter(r, []string{"linkedin_skills"}))
}
