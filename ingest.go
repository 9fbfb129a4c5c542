package ragqa

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lcasas/ragqa/rag"
	"github.com/lcasas/ragqa/rag/providers"
)

// Ingestor embeds source material and appends it to the vector store.
// Ingestion is append-only and best-effort: batches already flushed before a
// failure stay in the store, so re-running after an error may duplicate
// records.
type Ingestor struct {
	store     rag.VectorStore
	embedder  providers.Embedder
	chunker   rag.Chunker
	parser    *rag.ParserManager
	limiter   *rate.Limiter
	batchSize int
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithBatchSize sets how many records are flushed to the store at once.
func WithBatchSize(n int) IngestorOption {
	return func(ing *Ingestor) { ing.batchSize = n }
}

// WithEmbedRateLimit caps embedding calls per second during ingestion, for
// providers with request-per-minute quotas.
func WithEmbedRateLimit(rps float64) IngestorOption {
	return func(ing *Ingestor) { ing.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithChunker replaces the chunker used for whole-file ingestion.
func WithChunker(chunker rag.Chunker) IngestorOption {
	return func(ing *Ingestor) { ing.chunker = chunker }
}

// NewIngestor builds an ingestor over an already-connected store. By default
// it flushes batches of 32 records, does not rate-limit embedding calls, and
// chunks whole files into 200-token pieces with 50 tokens of overlap.
func NewIngestor(store rag.VectorStore, embedder providers.Embedder, opts ...IngestorOption) (*Ingestor, error) {
	chunker, err := rag.NewTextChunker()
	if err != nil {
		return nil, err
	}
	ing := &Ingestor{
		store:     store,
		embedder:  embedder,
		chunker:   chunker,
		parser:    rag.NewParserManager(),
		batchSize: 32,
	}
	for _, opt := range opts {
		opt(ing)
	}
	if ing.batchSize <= 0 {
		return nil, rag.Errorf(rag.KindConfig, "ragqa.NewIngestor", "batch size must be positive, got %d", ing.batchSize)
	}
	return ing, nil
}

// entry is one unit of text on its way into the store.
type entry struct {
	text string
	meta map[string]string
}

// IngestText stores a single chunk of raw text under the given source label.
// Blank text is skipped and counts as zero records written.
func (ing *Ingestor) IngestText(ctx context.Context, text, sourceLabel string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	if sourceLabel == "" {
		sourceLabel = "unknown"
	}
	return ing.write(ctx, []entry{{
		text: text,
		meta: map[string]string{rag.PayloadSourceFile: sourceLabel},
	}})
}

// jsonEntry mirrors the structured records produced by OCR extraction: a
// list of typed blocks where only type "text" carries content.
type jsonEntry struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	PageIdx *int   `json:"page_idx"`
}

// IngestJSONFile loads a JSON array of typed records and stores every entry
// whose type is "text" and whose text is non-blank. The payload records the
// source file name, the page index when present, and the entry's original
// position in the array.
func (ing *Ingestor) IngestJSONFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, rag.E(rag.KindService, "ragqa.IngestJSONFile", err)
	}
	var raw []jsonEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, rag.E(rag.KindValidation, "ragqa.IngestJSONFile", err)
	}
	rag.GlobalLogger.Info("loading JSON source", "path", path, "entries", len(raw))

	source := filepath.Base(path)
	var entries []entry
	for idx, item := range raw {
		if item.Type != "text" {
			continue
		}
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		meta := map[string]string{
			rag.PayloadSourceFile:    source,
			rag.PayloadOriginalIndex: strconv.Itoa(idx),
		}
		if item.PageIdx != nil {
			meta[rag.PayloadPageIndex] = strconv.Itoa(*item.PageIdx)
		}
		entries = append(entries, entry{text: text, meta: meta})
	}
	return ing.write(ctx, entries)
}

// IngestFile parses a .txt or .pdf file, chunks its content and stores the
// chunks under the file's base name.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	doc, err := ing.parser.Parse(path)
	if err != nil {
		return 0, err
	}
	source := filepath.Base(path)
	chunks := ing.chunker.Chunk(doc.Content)
	entries := make([]entry, 0, len(chunks))
	for i, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		entries = append(entries, entry{
			text: text,
			meta: map[string]string{
				rag.PayloadSourceFile:    source,
				rag.PayloadOriginalIndex: strconv.Itoa(i),
			},
		})
	}
	return ing.write(ctx, entries)
}

// IngestDir walks a directory and ingests every .txt and .pdf file in it.
func (ing *Ingestor) IngestDir(ctx context.Context, dir string) (int, error) {
	total := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".pdf":
			n, err := ing.IngestFile(ctx, path)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return total, rag.E(rag.KindService, "ragqa.IngestDir", err)
	}
	return total, nil
}

// write embeds the entries and flushes them to the store in batches. On
// failure the count of records already written is returned with the error;
// those records are not rolled back.
func (ing *Ingestor) write(ctx context.Context, entries []entry) (int, error) {
	written := 0
	batch := make([]rag.Record, 0, ing.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ing.store.Add(ctx, batch); err != nil {
			return err
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, ent := range entries {
		if ing.limiter != nil {
			if err := ing.limiter.Wait(ctx); err != nil {
				return written, rag.E(rag.KindService, "ragqa.ingest", err)
			}
		}
		vec, err := ing.embedder.Embed(ctx, ent.text)
		if err != nil {
			return written, rag.E(rag.KindService, "ragqa.ingest", err)
		}
		batch = append(batch, rag.Record{
			ID:     uuid.NewString(),
			Vector: vec,
			Text:   ent.text,
			Meta:   ent.meta,
		})
		if len(batch) >= ing.batchSize {
			if err := flush(); err != nil {
				return written, rag.E(rag.KindService, "ragqa.ingest", err)
			}
		}
	}
	if err := flush(); err != nil {
		return written, rag.E(rag.KindService, "ragqa.ingest", err)
	}
	if written > 0 {
		rag.GlobalLogger.Info("ingestion complete", "records", written)
	}
	return written, nil
}
