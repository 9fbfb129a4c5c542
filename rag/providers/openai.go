package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

func init() {
	Register("openai", NewOpenAIEmbedder)
}

const defaultEmbeddingModel = "text-embedding-3-small"

// knownDimensions maps OpenAI embedding models to their output size.
// Unknown models fall back to probing the API on first use.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API or
// any compatible endpoint (a custom BaseURL covers DashScope-style
// gateways). Safe for concurrent use.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string

	mu  sync.Mutex
	dim int
}

// NewOpenAIEmbedder builds the provider. An API key is required; the model
// defaults to text-embedding-3-small.
func NewOpenAIEmbedder(cfg Config) (Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required for the openai embedder")
	}
	model := cfg.Model
	if model == "" {
		model = defaultEmbeddingModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	e := &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
	if dim, ok := knownDimensions[model]; ok {
		e.dim = dim
	}
	return e, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("cannot embed empty text")
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding returned")
	}
	src := resp.Data[0].Embedding
	vec := make([]float64, len(src))
	for i, v := range src {
		vec[i] = float64(v)
	}
	e.mu.Lock()
	if e.dim == 0 {
		e.dim = len(vec)
	}
	e.mu.Unlock()
	return vec, nil
}

// Dimension reports the model's output size. For models outside the known
// table the size is learned from the first Embed call.
func (e *OpenAIEmbedder) Dimension() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dim == 0 {
		return 0, fmt.Errorf("unknown dimension for model %s before first embedding", e.model)
	}
	return e.dim, nil
}
