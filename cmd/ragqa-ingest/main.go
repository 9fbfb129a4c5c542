// Command ragqa-ingest loads documents into the vector store: a JSON export,
// a raw text snippet, a single file, or a directory tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lcasas/ragqa"
	"github.com/lcasas/ragqa/config"
	"github.com/lcasas/ragqa/rag"
	"github.com/lcasas/ragqa/rag/providers"
)

func run() error {
	_ = godotenv.Load()

	jsonPath := flag.String("json", "", "ingest a JSON entry list (type/text/page_idx records)")
	text := flag.String("text", "", "ingest a raw text snippet")
	source := flag.String("source", "", "source label for -text")
	file := flag.String("file", "", "ingest a single document (.txt, .md or .pdf)")
	dir := flag.String("dir", "", "ingest every supported document under a directory")
	flag.Parse()

	if *jsonPath == "" && *text == "" && *file == "" && *dir == "" {
		flag.Usage()
		return fmt.Errorf("nothing to ingest: pass -json, -text, -file or -dir")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ragqa.SetLogLevel(cfg.LogLevel)

	apiKey, err := cfg.APIKey()
	if err != nil {
		return err
	}

	store, err := rag.OpenStore(cfg.StoreConfig())
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer store.Close()

	embedder, err := providers.Get(cfg.EmbeddingProvider, providers.Config{
		APIKey:  apiKey,
		Model:   cfg.EmbeddingModel,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return err
	}

	chunker, err := rag.NewTextChunker(
		rag.ChunkSize(cfg.ChunkSize),
		rag.ChunkOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		return err
	}

	ingestor, err := ragqa.NewIngestor(store, embedder,
		ragqa.WithBatchSize(cfg.BatchSize),
		ragqa.WithEmbedRateLimit(cfg.EmbedRPS),
		ragqa.WithChunker(chunker),
	)
	if err != nil {
		return err
	}

	total := 0
	if *jsonPath != "" {
		n, err := ingestor.IngestJSONFile(ctx, *jsonPath)
		total += n
		if err != nil {
			return fmt.Errorf("after %d records: %w", total, err)
		}
		ragqa.Info("ingested JSON export", "path", *jsonPath, "records", n)
	}
	if *text != "" {
		n, err := ingestor.IngestText(ctx, *text, *source)
		total += n
		if err != nil {
			return fmt.Errorf("after %d records: %w", total, err)
		}
		ragqa.Info("ingested text snippet", "records", n)
	}
	if *file != "" {
		n, err := ingestor.IngestFile(ctx, *file)
		total += n
		if err != nil {
			return fmt.Errorf("after %d records: %w", total, err)
		}
		ragqa.Info("ingested file", "path", *file, "records", n)
	}
	if *dir != "" {
		n, err := ingestor.IngestDir(ctx, *dir)
		total += n
		if err != nil {
			return fmt.Errorf("after %d records: %w", total, err)
		}
		ragqa.Info("ingested directory", "path", *dir, "records", n)
	}

	count, err := store.Count(ctx)
	if err != nil {
		fmt.Printf("ingested %d records\n", total)
		return nil
	}
	fmt.Printf("ingested %d records, collection now holds %d\n", total, count)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ragqa-ingest: %v\n", err)
		os.Exit(1)
	}
}
