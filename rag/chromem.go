package rag

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/philippgille/chromem-go"
)

// chromemStore is the default backend: a chromem-go database persisted at a
// fixed local directory with one named collection. chromem scores are cosine
// similarity in [0, 1], which is what the retriever threshold expects.
type chromemStore struct {
	db         *chromem.DB
	col        *chromem.Collection
	mu         sync.Mutex
	path       string
	collection string
	dimension  int
}

func newChromemStore(cfg StoreConfig) (*chromemStore, error) {
	if cfg.Path == "" {
		return nil, Errorf(KindConfig, "rag.newChromemStore", "data path is required")
	}
	return &chromemStore{
		path:       cfg.Path,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
	}, nil
}

// upstreamEmbedding rejects any attempt by chromem to embed on its own.
// All vectors are computed by the pipeline's embedder and passed in.
func upstreamEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embeddings are computed upstream, not by the store")
}

func (s *chromemStore) Connect(ctx context.Context) error {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return E(KindService, "chromem.Connect", err)
	}
	db, err := chromem.NewPersistentDB(s.path, false)
	if err != nil {
		return E(KindService, "chromem.Connect", err)
	}
	col, err := db.GetOrCreateCollection(s.collection, nil, upstreamEmbedding)
	if err != nil {
		return E(KindService, "chromem.Connect", err)
	}
	s.db = db
	s.col = col
	GlobalLogger.Debug("chromem store ready", "path", s.path, "collection", s.collection, "records", col.Count())
	return nil
}

func (s *chromemStore) Add(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if err := checkDimension("chromem.Add", rec.Vector, s.dimension); err != nil {
			return err
		}
		doc := chromem.Document{
			ID:        rec.ID,
			Content:   rec.Text,
			Metadata:  rec.Meta,
			Embedding: toFloat32(rec.Vector),
		}
		if err := s.col.AddDocument(ctx, doc); err != nil {
			return E(KindService, "chromem.Add", err)
		}
	}
	return nil
}

func (s *chromemStore) Query(ctx context.Context, vector []float64, topK int) ([]Hit, error) {
	if err := checkDimension("chromem.Query", vector, s.dimension); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, Errorf(KindValidation, "chromem.Query", "topK must be positive, got %d", topK)
	}
	// chromem rejects nResults above the document count.
	count := s.col.Count()
	if count == 0 {
		return nil, nil
	}
	topK = clampTopK(topK, count)

	results, err := s.col.QueryEmbedding(ctx, toFloat32(vector), topK, nil, nil)
	if err != nil {
		return nil, E(KindService, "chromem.Query", err)
	}
	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, Hit{
			Score: float64(res.Similarity),
			Text:  res.Content,
			Meta:  res.Metadata,
		})
	}
	return hits, nil
}

func (s *chromemStore) Count(ctx context.Context) (int, error) {
	return s.col.Count(), nil
}

func (s *chromemStore) Dimension() int { return s.dimension }

func (s *chromemStore) Close() error {
	// chromem persists on write; nothing to release.
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
