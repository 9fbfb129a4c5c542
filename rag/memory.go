package rag

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is a brute-force cosine-similarity store with no persistence.
// It backs tests and throwaway demos and mirrors the scoring semantics of
// the persistent backends: descending cosine similarity.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	records   []Record
}

// NewMemoryStore returns an empty in-memory store with a fixed dimension.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

func (s *MemoryStore) Connect(ctx context.Context) error { return nil }

func (s *MemoryStore) Add(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if err := checkDimension("memory.Add", rec.Vector, s.dimension); err != nil {
			return err
		}
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, vector []float64, topK int) ([]Hit, error) {
	if err := checkDimension("memory.Query", vector, s.dimension); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, Errorf(KindValidation, "memory.Query", "topK must be positive, got %d", topK)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	hits := make([]Hit, 0, len(s.records))
	for _, rec := range s.records {
		hits = append(hits, Hit{
			Score: cosineSimilarity(vector, rec.Vector),
			Text:  rec.Text,
			Meta:  rec.Meta,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) Dimension() int { return s.dimension }

func (s *MemoryStore) Close() error { return nil }

// cosineSimilarity returns 0 for zero vectors, otherwise the cosine of the
// angle between a and b.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
