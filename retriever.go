package ragqa

import (
	"context"
	"strings"

	"github.com/lcasas/ragqa/rag"
	"github.com/lcasas/ragqa/rag/providers"
)

// Retriever answers "which stored chunks are relevant to this question".
// It embeds the question with the same embedder configuration used at
// ingestion time, asks the store for the nearest chunks, and keeps only
// those at or above the minimum similarity score.
type Retriever struct {
	store    rag.VectorStore
	embedder providers.Embedder
	topK     int
	minScore float64
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithTopK sets how many nearest chunks the store is asked for.
func WithTopK(k int) RetrieverOption {
	return func(r *Retriever) { r.topK = k }
}

// WithMinScore sets the similarity threshold below which results are
// dropped. Must be in [0, 1].
func WithMinScore(score float64) RetrieverOption {
	return func(r *Retriever) { r.minScore = score }
}

// NewRetriever builds a retriever over an already-connected store.
// Defaults: top-k 3, minimum score 0.80.
func NewRetriever(store rag.VectorStore, embedder providers.Embedder, opts ...RetrieverOption) (*Retriever, error) {
	r := &Retriever{
		store:    store,
		embedder: embedder,
		topK:     3,
		minScore: 0.80,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.topK <= 0 {
		return nil, rag.Errorf(rag.KindConfig, "ragqa.NewRetriever", "topK must be positive, got %d", r.topK)
	}
	if r.minScore < 0 || r.minScore > 1 {
		return nil, rag.Errorf(rag.KindConfig, "ragqa.NewRetriever", "minScore must be in [0, 1], got %v", r.minScore)
	}
	return r, nil
}

// Search retrieves the chunks most similar to question. The returned slice
// preserves the store's descending-score ranking, holds at most topK
// entries, and every entry scores at least minScore. An empty result is a
// valid outcome meaning "no relevant context", not an error.
func (r *Retriever) Search(ctx context.Context, question string) ([]RetrievalResult, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, rag.Errorf(rag.KindValidation, "ragqa.Search", "question is empty")
	}

	vec, err := r.embedder.Embed(ctx, q)
	if err != nil {
		return nil, rag.E(rag.KindService, "ragqa.Search", err)
	}
	if want := r.store.Dimension(); len(vec) != want {
		return nil, rag.Errorf(rag.KindConfig, "ragqa.Search",
			"query embedding dimension %d does not match store dimension %d; ingestion and query must use the same embedder", len(vec), want)
	}

	hits, err := r.store.Query(ctx, vec, r.topK)
	if err != nil {
		return nil, rag.E(rag.KindService, "ragqa.Search", err)
	}

	results := make([]RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < r.minScore {
			continue
		}
		results = append(results, resultFromHit(hit))
	}
	rag.GlobalLogger.Debug("search complete", "question", q, "hits", len(hits), "kept", len(results))
	return results, nil
}

// resultFromHit is the single place where the store's native payload schema
// is mapped to display field names. Keeping the rename here avoids silent
// key-mismatch bugs if the store schema ever changes.
func resultFromHit(hit rag.Hit) RetrievalResult {
	return RetrievalResult{
		FileName: hit.Meta[rag.PayloadSourceFile],
		Content:  hit.Text,
		Score:    hit.Score,
	}
}
