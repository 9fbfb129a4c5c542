package ragqa

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lcasas/ragqa/rag"
)

// LLM is the single-turn chat contract the composer depends on. Each call is
// stateless: no conversation memory is kept between calls.
type LLM interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ChatConfig configures the OpenAI-compatible chat client.
type ChatConfig struct {
	APIKey string
	Model  string
	// BaseURL points at an OpenAI-compatible endpoint; empty means the
	// OpenAI default. DashScope's compatible mode serves Qwen models this
	// way.
	BaseURL     string
	Temperature float32
}

type openAIChat struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewChatLLM builds a synchronous chat client. The API key is required.
func NewChatLLM(cfg ChatConfig) (LLM, error) {
	if cfg.APIKey == "" {
		return nil, rag.Errorf(rag.KindConfig, "ragqa.NewChatLLM", "API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIChat{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *openAIChat) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", rag.E(rag.KindService, "ragqa.Complete", err)
	}
	if len(resp.Choices) == 0 {
		return "", rag.E(rag.KindService, "ragqa.Complete", errors.New("no completion choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}
