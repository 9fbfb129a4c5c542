package rag

import (
	"context"
	"time"
)

// Payload keys written at ingestion time and read back by the retriever.
// The store keeps its native schema; the mapping to display names lives in
// one adapter at the retriever boundary.
const (
	PayloadSourceFile    = "content path"
	PayloadPageIndex     = "page_idx"
	PayloadOriginalIndex = "original_index"
)

// Record is one embedded chunk persisted in a vector store. The vector
// length must equal the store's configured dimension.
type Record struct {
	ID     string
	Vector []float64
	Text   string
	Meta   map[string]string
}

// Hit is one nearest-neighbour match returned by a store query, ordered by
// descending similarity score. Scores are cosine similarity in [0, 1].
type Hit struct {
	Score float64
	Text  string
	Meta  map[string]string
}

// VectorStore persists records and answers nearest-neighbour queries.
// Implementations serialize their own concurrent access; the pipeline adds
// no locking of its own.
type VectorStore interface {
	// Connect opens the store and ensures the configured collection exists.
	Connect(ctx context.Context) error
	// Add appends records to the collection. Records are never overwritten
	// or deleted; re-adding the same content duplicates it.
	Add(ctx context.Context, records []Record) error
	// Query returns up to topK nearest records by descending similarity.
	Query(ctx context.Context, vector []float64, topK int) ([]Hit, error)
	// Count reports the number of records in the collection.
	Count(ctx context.Context) (int, error)
	// Dimension reports the fixed vector dimension of the collection.
	Dimension() int
	Close() error
}

// StoreConfig selects and configures a vector store backend.
type StoreConfig struct {
	Type       string // "chromem", "milvus" or "memory"
	Path       string // local data directory (chromem)
	Address    string // server address (milvus)
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// OpenStore builds the configured backend. The returned store is not yet
// connected; call Connect before use.
func OpenStore(cfg StoreConfig) (VectorStore, error) {
	if cfg.Dimension <= 0 {
		return nil, Errorf(KindConfig, "rag.OpenStore", "invalid dimension %d", cfg.Dimension)
	}
	if cfg.Collection == "" {
		return nil, Errorf(KindConfig, "rag.OpenStore", "collection name is required")
	}
	switch cfg.Type {
	case "chromem":
		return newChromemStore(cfg)
	case "milvus":
		return newMilvusStore(cfg)
	case "memory":
		return NewMemoryStore(cfg.Dimension), nil
	default:
		return nil, Errorf(KindConfig, "rag.OpenStore", "unsupported store type: %s", cfg.Type)
	}
}

// checkDimension verifies a vector against the collection dimension before
// it can corrupt the index.
func checkDimension(op string, vec []float64, want int) error {
	if len(vec) != want {
		return Errorf(KindConfig, op, "vector dimension %d does not match collection dimension %d", len(vec), want)
	}
	return nil
}

func clampTopK(topK, count int) int {
	if topK > count {
		return count
	}
	return topK
}
