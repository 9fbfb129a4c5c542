// Package config manages settings for the ragqa pipeline. Values come from
// three sources, highest precedence first: environment variables, a JSON
// config file, and built-in defaults.
//
// Config file search order:
//  1. $RAGQA_CONFIG
//  2. ~/.ragqa/config.json
//  3. ./ragqa.json
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lcasas/ragqa/rag"
)

// Config holds every knob of the pipeline in one place so the pieces can be
// constructed explicitly instead of reading globals.
type Config struct {
	// Vector store settings.
	StoreType  string // "chromem", "milvus" or "memory"
	StorePath  string // data directory for the chromem backend
	StoreAddr  string // server address for the milvus backend
	Collection string
	Dimension  int

	// Embedding settings.
	EmbeddingProvider string
	EmbeddingModel    string

	// LLM settings.
	LLMModel    string
	Temperature float32

	// BaseURL points both clients at an OpenAI-compatible endpoint, e.g. a
	// DashScope gateway for Qwen models. Empty means api.openai.com.
	BaseURL string
	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv string

	// Retrieval settings. SearchTopK/MinScore drive direct Search calls;
	// AnswerTopK is the composer's retrieval depth.
	SearchTopK int
	MinScore   float64
	AnswerTopK int

	// Ingestion settings.
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
	EmbedRPS     float64 // embedding requests per second during ingestion

	// Web settings.
	Port int

	Timeout  time.Duration
	LogLevel rag.LogLevel
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StoreType:         "chromem",
		StorePath:         "./data/ragqa",
		StoreAddr:         "localhost:19530",
		Collection:        "knowledge_base",
		Dimension:         1536,
		EmbeddingProvider: "openai",
		EmbeddingModel:    "text-embedding-3-small",
		LLMModel:          "gpt-4o-mini",
		Temperature:       0.2,
		APIKeyEnv:         "OPENAI_API_KEY",
		SearchTopK:        3,
		MinScore:          0.80,
		AnswerTopK:        2,
		ChunkSize:         200,
		ChunkOverlap:      50,
		BatchSize:         32,
		EmbedRPS:          10,
		Port:              7860,
		Timeout:           30 * time.Second,
		LogLevel:          rag.LogLevelInfo,
	}
}

// Load builds the configuration from defaults, an optional config file and
// environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv("RAGQA_CONFIG")
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidates := []string{
				filepath.Join(home, ".ragqa", "config.json"),
				"ragqa.json",
			}
			for _, candidate := range candidates {
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
					break
				}
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, rag.E(rag.KindConfig, "config.Load", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, rag.E(rag.KindConfig, "config.Load", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RAGQA_STORE"); v != "" {
		cfg.StoreType = v
	}
	if v := os.Getenv("RAGQA_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("RAGQA_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("RAGQA_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("RAGQA_LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("RAGQA_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("RAGQA_API_KEY_ENV"); v != "" {
		cfg.APIKeyEnv = v
	}
	if v := os.Getenv("RAGQA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("RAGQA_MIN_SCORE"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinScore = score
		}
	}
	if v := os.Getenv("RAGQA_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.SearchTopK = k
		}
	}
}

// APIKey reads the credential named by APIKeyEnv. A missing credential is a
// configuration error; the process should fail at startup rather than at
// the first query.
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.APIKeyEnv)
	if key == "" {
		return "", rag.Errorf(rag.KindConfig, "config.APIKey", "missing credential: environment variable %s is not set", c.APIKeyEnv)
	}
	return key, nil
}

// StoreConfig derives the vector store settings.
func (c *Config) StoreConfig() rag.StoreConfig {
	return rag.StoreConfig{
		Type:       c.StoreType,
		Path:       c.StorePath,
		Address:    c.StoreAddr,
		Collection: c.Collection,
		Dimension:  c.Dimension,
		Timeout:    c.Timeout,
	}
}

// Save writes the configuration as JSON, creating directories as needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
