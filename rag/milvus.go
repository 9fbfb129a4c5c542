package rag

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Field names of the Milvus collection schema.
const (
	milvusFieldID        = "ID"
	milvusFieldEmbedding = "Embedding"
	milvusFieldText      = "Text"
	milvusFieldMeta      = "Meta"
)

// milvusStore is the server-backed alternative to chromem for deployments
// that already run Milvus. It uses the COSINE metric so scores line up with
// the retriever threshold.
type milvusStore struct {
	client     client.Client
	address    string
	collection string
	dimension  int
}

func newMilvusStore(cfg StoreConfig) (*milvusStore, error) {
	if cfg.Address == "" {
		return nil, Errorf(KindConfig, "rag.newMilvusStore", "server address is required")
	}
	return &milvusStore{
		address:    cfg.Address,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
	}, nil
}

func (s *milvusStore) Connect(ctx context.Context) error {
	c, err := client.NewClient(ctx, client.Config{Address: s.address})
	if err != nil {
		return E(KindService, "milvus.Connect", err)
	}
	s.client = c
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}
	return nil
}

func (s *milvusStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return E(KindService, "milvus.ensureCollection", err)
	}
	if !exists {
		schema := entity.NewSchema().WithName(s.collection).
			WithField(entity.NewField().WithName(milvusFieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(milvusFieldEmbedding).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dimension))).
			WithField(entity.NewField().WithName(milvusFieldText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535)).
			WithField(entity.NewField().WithName(milvusFieldMeta).WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535))
		if err := s.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return E(KindService, "milvus.ensureCollection", err)
		}
		idx, err := entity.NewIndexHNSW(entity.COSINE, 16, 256)
		if err != nil {
			return E(KindService, "milvus.ensureCollection", err)
		}
		if err := s.client.CreateIndex(ctx, s.collection, milvusFieldEmbedding, idx, false); err != nil {
			return E(KindService, "milvus.ensureCollection", err)
		}
	}
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return E(KindService, "milvus.ensureCollection", err)
	}
	GlobalLogger.Debug("milvus store ready", "address", s.address, "collection", s.collection)
	return nil
}

func (s *milvusStore) Add(ctx context.Context, records []Record) error {
	ids := make([]string, 0, len(records))
	vectors := make([][]float32, 0, len(records))
	texts := make([]string, 0, len(records))
	metas := make([]string, 0, len(records))
	for _, rec := range records {
		if err := checkDimension("milvus.Add", rec.Vector, s.dimension); err != nil {
			return err
		}
		meta, err := json.Marshal(rec.Meta)
		if err != nil {
			return E(KindService, "milvus.Add", err)
		}
		ids = append(ids, rec.ID)
		vectors = append(vectors, toFloat32(rec.Vector))
		texts = append(texts, rec.Text)
		metas = append(metas, string(meta))
	}
	_, err := s.client.Insert(ctx, s.collection, "",
		entity.NewColumnVarChar(milvusFieldID, ids),
		entity.NewColumnFloatVector(milvusFieldEmbedding, s.dimension, vectors),
		entity.NewColumnVarChar(milvusFieldText, texts),
		entity.NewColumnVarChar(milvusFieldMeta, metas),
	)
	if err != nil {
		return E(KindService, "milvus.Add", err)
	}
	if err := s.client.Flush(ctx, s.collection, false); err != nil {
		return E(KindService, "milvus.Add", err)
	}
	return nil
}

func (s *milvusStore) Query(ctx context.Context, vector []float64, topK int) ([]Hit, error) {
	if err := checkDimension("milvus.Query", vector, s.dimension); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, Errorf(KindValidation, "milvus.Query", "topK must be positive, got %d", topK)
	}
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, E(KindService, "milvus.Query", err)
	}
	result, err := s.client.Search(ctx, s.collection, nil, "",
		[]string{milvusFieldText, milvusFieldMeta},
		[]entity.Vector{entity.FloatVector(toFloat32(vector))},
		milvusFieldEmbedding, entity.COSINE, topK, sp)
	if err != nil {
		return nil, E(KindService, "milvus.Query", err)
	}
	var hits []Hit
	for _, rs := range result {
		for i := 0; i < rs.ResultCount; i++ {
			hit := Hit{Score: float64(rs.Scores[i])}
			if col := rs.Fields.GetColumn(milvusFieldText); col != nil {
				if v, err := col.Get(i); err == nil {
					hit.Text, _ = v.(string)
				}
			}
			if col := rs.Fields.GetColumn(milvusFieldMeta); col != nil {
				if v, err := col.Get(i); err == nil {
					if raw, ok := v.(string); ok && raw != "" {
						meta := make(map[string]string)
						if err := json.Unmarshal([]byte(raw), &meta); err == nil {
							hit.Meta = meta
						}
					}
				}
			}
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

func (s *milvusStore) Count(ctx context.Context) (int, error) {
	stats, err := s.client.GetCollectionStatistics(ctx, s.collection)
	if err != nil {
		return 0, E(KindService, "milvus.Count", err)
	}
	n, err := strconv.Atoi(stats["row_count"])
	if err != nil {
		return 0, E(KindService, "milvus.Count", err)
	}
	return n, nil
}

func (s *milvusStore) Dimension() int { return s.dimension }

func (s *milvusStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
