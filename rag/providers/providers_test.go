package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEmbedder struct {
	dim int
}

func (f *fixedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return make([]float64, f.dim), nil
}

func (f *fixedEmbedder) Dimension() (int, error) { return f.dim, nil }

func TestRegisterAndGet(t *testing.T) {
	Register("fixed", func(cfg Config) (Embedder, error) {
		return &fixedEmbedder{dim: 8}, nil
	})

	emb, err := Get("fixed", Config{})
	require.NoError(t, err)

	dim, err := emb.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 8, dim)

	vec, err := emb.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
}

func TestGetUnknownProvider(t *testing.T) {
	_, err := Get("no-such-provider", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-provider")
}

func TestListIncludesRegistered(t *testing.T) {
	Register("listed", func(cfg Config) (Embedder, error) {
		return &fixedEmbedder{dim: 2}, nil
	})
	assert.Contains(t, List(), "listed")
	assert.Contains(t, List(), "openai")
}
