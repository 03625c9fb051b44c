package embedding

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umang00/companion-backend/internal/llm"
)

type fakeGateway struct {
	batches [][]string
	err     error
	shortBy int
}

func (f *fakeGateway) Chat(context.Context, llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeGateway) Provider(string) (llm.Provider, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeGateway) Embed(_ context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, req.Input)
	n := len(req.Input) - f.shortBy
	if n < 0 {
		n = 0
	}
	embeddings := make([][]float32, n)
	for i := range embeddings {
		embeddings[i] = []float32{float32(i)}
	}
	return &llm.EmbeddingResponse{Embeddings: embeddings}, nil
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("text %d", i)
	}
	return out
}

func TestEmbedBatchesInputs(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, "")

	got, err := svc.Embed(context.Background(), texts(120))
	require.NoError(t, err)
	assert.Len(t, got, 120)

	require.Len(t, gw.batches, 3)
	assert.Len(t, gw.batches[0], 50)
	assert.Len(t, gw.batches[1], 50)
	assert.Len(t, gw.batches[2], 20)
}

func TestEmbedCountMismatchIsHardError(t *testing.T) {
	gw := &fakeGateway{shortBy: 1}
	svc := NewService(gw, "")

	_, err := svc.Embed(context.Background(), texts(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count mismatch")
}

func TestEmbedEmptyInput(t *testing.T) {
	svc := NewService(&fakeGateway{}, "")
	got, err := svc.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbedSingle(t *testing.T) {
	svc := NewService(&fakeGateway{}, "")
	vec, err := svc.EmbedSingle(context.Background(), "query text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0}, vec)
}

func TestEmbedProviderError(t *testing.T) {
	gw := &fakeGateway{err: fmt.Errorf("rate limited")}
	svc := NewService(gw, "")
	_, err := svc.Embed(context.Background(), texts(2))
	require.Error(t, err)
}
