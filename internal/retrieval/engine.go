package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Umang00/companion-backend/internal/vectorstore"
)

const (
	defaultLimit    = 5
	overFetchFactor = 4
)

// categoryBoosts is keyed by "category_subcategory" with bare-category
// fallbacks. Multipliers are applied on top of the cosine similarity score.
var categoryBoosts = map[string]float64{
	"resume_experience":   1.3,
	"linkedin_experience": 1.25,
	"journey_narrative":   1.2,
	"resume_skills":       1.15,
	"resume_education":    1.1,
	"resume":              1.1,
	"linkedin":            1.05,
	"journey":             1.1,
	"github":              1.0,
}

const (
	lengthBoost    = 1.1
	lengthMinWords = 100
	lengthMaxWords = 300
)

// QueryEmbedder turns a query string into a vector.
type QueryEmbedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

type Options struct {
	Limit       int
	Categories  []string
	YearFilter  int
	BoostRecent bool
}

type Engine struct {
	store    vectorstore.Store
	embedder QueryEmbedder
	logger   *slog.Logger
}

func NewEngine(store vectorstore.Store, embedder QueryEmbedder, logger *slog.Logger) *Engine {
	return &Engine{store: store, embedder: embedder, logger: logger}
}

// Search embeds the query, over-fetches candidates from the vector store,
// applies category and year filters, re-ranks with heuristic boosts and
// returns the top results.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]vectorstore.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	vec, err := e.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := e.store.Search(ctx, vec, limit*overFetchFactor)
	if err != nil {
		return nil, fmt.Errorf("search vector store: %w", err)
	}

	filtered := make([]vectorstore.SearchResult, 0, len(candidates))
	for _, r := range candidates {
		if len(opts.Categories) > 0 && !matchesAnyFilter(r, opts.Categories) {
			continue
		}
		if opts.YearFilter > 0 {
			if y, ok := metaInt(r.Metadata, "year"); ok && y != opts.YearFilter {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	for i := range filtered {
		filtered[i].Score *= boostFor(filtered[i], opts.BoostRecent)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	e.logger.Debug("retrieval complete",
		"query_len", len(query),
		"candidates", len(candidates),
		"returned", len(filtered))

	return filtered, nil
}

// matchesAnyFilter checks a result against filter keys of the form
// "category" or "category_subcategory". The category part must match
// exactly; a subcategory part, when present, must also match exactly.
func matchesAnyFilter(r vectorstore.SearchResult, filters []string) bool {
	for _, f := range filters {
		cat, sub, hasSub := strings.Cut(f, "_")
		if cat != r.Category {
			continue
		}
		if !hasSub || sub == r.Subcategory {
			return true
		}
	}
	return false
}

func boostFor(r vectorstore.SearchResult, boostRecent bool) float64 {
	boost := 1.0

	key := r.Category
	if r.Subcategory != "" {
		key = r.Category + "_" + r.Subcategory
	}
	if b, ok := categoryBoosts[key]; ok {
		boost *= b
	} else if b, ok := categoryBoosts[r.Category]; ok {
		boost *= b
	}

	if boostRecent {
		if y, ok := metaInt(r.Metadata, "year"); ok {
			switch cur := time.Now().Year(); {
			case y == cur:
				boost *= 1.3
			case y == cur-1:
				boost *= 1.2
			case y == cur-2:
				boost *= 1.1
			}
		}
	}

	if w := len(strings.Fields(r.Text)); w >= lengthMinWords && w <= lengthMaxWords {
		boost *= lengthBoost
	}

	return boost
}

// metaInt reads an integer metadata value, tolerating the float64 that
// JSONB round-trips produce.
func metaInt(meta map[string]any, key string) (int, bool) {
	v, ok := meta[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
