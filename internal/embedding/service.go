// Package embedding batches chunk text through the embedding provider.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/Umang00/companion-backend/internal/llm"
)

const (
	// defaultBatchSize keeps each request under the provider's input limit.
	defaultBatchSize = 50
	// defaultBatchDelay spaces batches out to respect the provider's rate
	// limit during full rebuilds.
	defaultBatchDelay = time.Second
)

type Service struct {
	gateway    llm.Gateway
	model      string
	batchSize  int
	batchDelay time.Duration
}

func NewService(gw llm.Gateway, model string) *Service {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Service{
		gateway:    gw,
		model:      model,
		batchSize:  defaultBatchSize,
		batchDelay: defaultBatchDelay,
	}
}

// Embed returns one vector per input text, in input order. A count mismatch
// from the provider is a hard error: mismatched arrays would silently corrupt
// the chunk-to-vector association downstream.
func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var all [][]float32
	for i := 0; i < len(texts); i += s.batchSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.batchDelay):
			}
		}

		end := i + s.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/s.batchSize, err)
		}
		if len(resp.Embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(resp.Embeddings), len(batch))
		}

		all = append(all, resp.Embeddings...)
	}

	return all, nil
}

// EmbedSingle embeds one text, used for queries.
func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}
